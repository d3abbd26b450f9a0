package entity

import "time"

// Pod KVM 主机，通过 libvirt 连接读取存储池
type Pod struct {
	ID        string    `json:"id"`   // Pod ID: pod-{递增 ID}
	Name      string    `json:"name"` // Pod 名称，唯一
	URI       string    `json:"uri"`  // Libvirt 连接 URI
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PodStoragePool KVM 主机上的存储池
type PodStoragePool struct {
	Name             string `json:"name"`
	UUID             string `json:"uuid"`
	Path             string `json:"path"`
	State            string `json:"state"`
	Total            uint64 `json:"total"`             // 总容量（字节）
	AllocatedTracked uint64 `json:"allocated_tracked"` // 本系统创建的卷占用（字节）
	AllocatedOther   uint64 `json:"allocated_other"`   // 其他来源占用（字节）
}

// ComposeDisk 组合虚拟机时请求的一块磁盘
type ComposeDisk struct {
	Size     uint64 `json:"size"`     // 大小（字节）
	Location string `json:"location"` // 目标存储池名称
}

// PoolUsage 一个存储池在组合请求下的容量分布
type PoolUsage struct {
	Pool      PodStoragePool `json:"pool"`
	Allocated uint64         `json:"allocated"` // 已分配 = tracked + other
	Requested uint64         `json:"requested"` // 本次请求分配到该池的容量
	Free      uint64         `json:"free"`      // total - allocated - requested，不足时为 0
	Total     uint64         `json:"total"`
	Disabled  bool           `json:"disabled"`          // 无法容纳待选磁盘
	Warning   string         `json:"warning,omitempty"` // 禁用原因
}
