package entity

// ========== Node ==========

// ListNodesRequest 列举节点
type ListNodesRequest struct {
	NodeType *NodeType `json:"node_type,omitempty"` // 为空时返回全部
	Hostname string    `json:"hostname,omitempty"`  // 按主机名前缀过滤
}

// ListNodesResponse 列举节点响应
type ListNodesResponse struct {
	Nodes []*Node `json:"nodes"`
}

// DescribeNodeRequest 查询节点
type DescribeNodeRequest struct {
	SystemID string `json:"system_id" binding:"required"`
}

// DescribeNodeResponse 查询节点响应
type DescribeNodeResponse struct {
	Node *Node `json:"node"`
}

// SyncNodesResponse 同步结果
type SyncNodesResponse struct {
	Machines    int `json:"machines"`
	Controllers int `json:"controllers"`
	Removed     int `json:"removed"`
}

// ========== Storage views ==========

// DescribeNodeStorageRequest 查询节点的可用存储表
type DescribeNodeStorageRequest struct {
	SystemID string      `json:"system_id" binding:"required"`
	Selected []DeviceRef `json:"selected,omitempty"`
}

// DescribeStorageBulkActionsRequest 查询批量操作按钮
type DescribeStorageBulkActionsRequest struct {
	SystemID string      `json:"system_id" binding:"required"`
	Selected []DeviceRef `json:"selected,omitempty"`
}

// SelectAllStorageRequest 全选或取消全选
type SelectAllStorageRequest struct {
	SystemID string      `json:"system_id" binding:"required"`
	Selected []DeviceRef `json:"selected,omitempty"`
}

// SelectAllStorageResponse 全选结果
type SelectAllStorageResponse struct {
	Selected []DeviceRef `json:"selected"`
}

// DescribeNextStorageNameRequest 查询新设备的默认名称
type DescribeNextStorageNameRequest struct {
	SystemID string `json:"system_id" binding:"required"`
	Prefix   string `json:"prefix" binding:"required"` // bcache, datastore, md, vg
}

// DescribeNextStorageNameResponse 默认名称
type DescribeNextStorageNameResponse struct {
	Name string `json:"name"`
}

// ========== Storage mutations ==========

// FilesystemParams 创建设备时顺带格式化与挂载
type FilesystemParams struct {
	FSType       string `json:"fstype,omitempty"`
	MountPoint   string `json:"mount_point,omitempty"`
	MountOptions string `json:"mount_options,omitempty"`
}

// CreatePartitionRequest 在磁盘上创建分区
type CreatePartitionRequest struct {
	SystemID string `json:"system_id" binding:"required"`
	DiskID   int64  `json:"disk_id" binding:"required"`
	Size     int64  `json:"size"` // 字节，为 0 时使用全部可用空间
	FilesystemParams
}

// CreateVolumeGroupRequest 创建卷组
type CreateVolumeGroupRequest struct {
	SystemID string      `json:"system_id" binding:"required"`
	Name     string      `json:"name,omitempty"` // 为空时自动生成 vgN
	Devices  []DeviceRef `json:"devices" binding:"required"`
}

// CreateRaidRequest 创建 RAID
type CreateRaidRequest struct {
	SystemID string      `json:"system_id" binding:"required"`
	Name     string      `json:"name,omitempty"` // 为空时自动生成 mdN
	Level    DiskType    `json:"level" binding:"required"`
	Devices  []DeviceRef `json:"devices" binding:"required"`
	Spares   []DeviceRef `json:"spares,omitempty"`
	FilesystemParams
}

// CreateCacheSetRequest 创建缓存集
type CreateCacheSetRequest struct {
	SystemID string    `json:"system_id" binding:"required"`
	Device   DeviceRef `json:"device"`
}

// CreateBcacheRequest 创建 bcache
type CreateBcacheRequest struct {
	SystemID   string    `json:"system_id" binding:"required"`
	Name       string    `json:"name,omitempty"` // 为空时自动生成 bcacheN
	Device     DeviceRef `json:"device"`
	CacheSetID int64     `json:"cache_set_id" binding:"required"`
	CacheMode  string    `json:"cache_mode,omitempty"` // writeback, writethrough, writearound，默认 writeback
	FilesystemParams
}

// CreateLogicalVolumeRequest 在卷组上创建逻辑卷
type CreateLogicalVolumeRequest struct {
	SystemID      string `json:"system_id" binding:"required"`
	VolumeGroupID int64  `json:"volume_group_id" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Size          int64  `json:"size"` // 字节，为 0 时使用全部可用空间
	FilesystemParams
}

// CreateDatastoreRequest 创建 VMFS 数据存储
type CreateDatastoreRequest struct {
	SystemID string      `json:"system_id" binding:"required"`
	Name     string      `json:"name,omitempty"` // 为空时自动生成 datastoreN
	Devices  []DeviceRef `json:"devices" binding:"required"`
}

// UpdateDatastoreRequest 向已有数据存储添加设备
type UpdateDatastoreRequest struct {
	SystemID    string      `json:"system_id" binding:"required"`
	DatastoreID int64       `json:"datastore_id" binding:"required"`
	Devices     []DeviceRef `json:"devices" binding:"required"`
}

// SetBootDiskRequest 设置启动盘
type SetBootDiskRequest struct {
	SystemID string `json:"system_id" binding:"required"`
	DiskID   int64  `json:"disk_id" binding:"required"`
}

// UpdateDiskRequest 修改磁盘
type UpdateDiskRequest struct {
	SystemID string   `json:"system_id" binding:"required"`
	DiskID   int64    `json:"disk_id" binding:"required"`
	Name     string   `json:"name,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	FilesystemParams
}

// DeleteDiskRequest 删除磁盘（包括 RAID、bcache、缓存集等虚拟设备）
type DeleteDiskRequest struct {
	SystemID string `json:"system_id" binding:"required"`
	DiskID   int64  `json:"disk_id" binding:"required"`
}

// DeletePartitionRequest 删除分区
type DeletePartitionRequest struct {
	SystemID    string `json:"system_id" binding:"required"`
	PartitionID int64  `json:"partition_id" binding:"required"`
}

// DeleteVolumeGroupRequest 删除卷组
type DeleteVolumeGroupRequest struct {
	SystemID      string `json:"system_id" binding:"required"`
	VolumeGroupID int64  `json:"volume_group_id" binding:"required"`
}

// StorageMutationResponse 存储修改请求的结果
type StorageMutationResponse struct {
	Request *StorageRequest `json:"request"`
}

// DescribeStorageRequestsRequest 查询请求日志
type DescribeStorageRequestsRequest struct {
	SystemID  string       `json:"system_id,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	State     RequestState `json:"state,omitempty"`
	Limit     int          `json:"limit,omitempty"`
}

// ResetStorageRequestStatusRequest 清除某个存储操作的请求状态
// Action 为动作名称，例如 createRaid
type ResetStorageRequestStatusRequest struct {
	SystemID string `json:"system_id" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// ResetStorageRequestStatusResponse 清除结果
type ResetStorageRequestStatusResponse struct {
	Return bool `json:"return"`
}

// DescribeStorageRequestsResponse 请求日志
type DescribeStorageRequestsResponse struct {
	Requests []*StorageRequest `json:"requests"`
}

// ========== Pod ==========

// RegisterPodRequest 注册 KVM 主机
type RegisterPodRequest struct {
	Name string `json:"name" binding:"required"`
	URI  string `json:"uri,omitempty"` // 为空时使用配置中的 libvirt_uri
}

// RegisterPodResponse 注册结果
type RegisterPodResponse struct {
	Pod *Pod `json:"pod"`
}

// ListPodsRequest 列举 Pod
type ListPodsRequest struct{}

// ListPodsResponse 列举 Pod 响应
type ListPodsResponse struct {
	Pods []*Pod `json:"pods"`
}

// DeletePodRequest 删除 Pod
type DeletePodRequest struct {
	PodID string `json:"pod_id" binding:"required"`
}

// DeletePodResponse 删除结果
type DeletePodResponse struct {
	Return bool `json:"return"`
}

// DescribePodStoragePoolsRequest 查询 Pod 的存储池用量
// Disks 为本次组装机器请求的磁盘，用于计算每个池的 requested 与是否可选
type DescribePodStoragePoolsRequest struct {
	PodID string        `json:"pod_id" binding:"required"`
	Disks []ComposeDisk `json:"disks,omitempty"`
}

// DescribePodStoragePoolsResponse 存储池用量
type DescribePodStoragePoolsResponse struct {
	Pools []PoolUsage `json:"pools"`
}
