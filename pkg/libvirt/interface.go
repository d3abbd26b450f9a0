package libvirt

// StorageClient 定义读取 KVM 主机存储的接口
// 用于抽象 libvirt 操作，便于测试和 mock
type StorageClient interface {
	GetHostname() (string, error)
	ListStoragePools() ([]*StoragePoolInfo, error)
	ListVolumes(poolName string) ([]*VolumeInfo, error)
	Close() error
}

// Connector 根据 URI 建立连接
type Connector func(uri string) (StorageClient, error)

var _ StorageClient = (*Client)(nil)
