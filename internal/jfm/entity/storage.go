package entity

// MinPartitionSize 可创建分区的最小剩余空间（4 MiB）
const MinPartitionSize int64 = 4 * 1024 * 1024

// DiskType 块设备类型
type DiskType string

const (
	DiskTypeBcache      DiskType = "bcache"
	DiskTypeCacheSet    DiskType = "cache-set"
	DiskTypeISCSI       DiskType = "iscsi"
	DiskTypePhysical    DiskType = "physical"
	DiskTypeRAID0       DiskType = "raid-0"
	DiskTypeRAID1       DiskType = "raid-1"
	DiskTypeRAID5       DiskType = "raid-5"
	DiskTypeRAID6       DiskType = "raid-6"
	DiskTypeRAID10      DiskType = "raid-10"
	DiskTypeVirtual     DiskType = "virtual"
	DiskTypeVolumeGroup DiskType = "lvm-vg"
	DiskTypeVMFS6       DiskType = "vmfs6"
	DiskTypeVMFS7       DiskType = "vmfs7"

	// DiskTypePartition 分区的类型标记
	DiskTypePartition DiskType = "partition"
)

// 文件系统类型
const (
	FSTypeVMFS6 = "vmfs6"
	FSTypeVMFS7 = "vmfs7"
	FSTypeRamfs = "ramfs"
	FSTypeTmpfs = "tmpfs"
)

// MountPointReserved 被系统保留的挂载点，不视为已挂载
const MountPointReserved = "RESERVED"

// Filesystem 文件系统
type Filesystem struct {
	ID             int64   `json:"id"`
	FSType         string  `json:"fstype"`
	IsFormatFSType bool    `json:"is_format_fstype"` // 是否为可格式化的文件系统类型
	Label          string  `json:"label"`
	MountOptions   *string `json:"mount_options"`
	MountPoint     string  `json:"mount_point"`
	UsedFor        string  `json:"used_for"`
}

// DiskParent 虚拟磁盘的父设备引用
type DiskParent struct {
	ID   int64    `json:"id"`
	UUID string   `json:"uuid"`
	Type DiskType `json:"type"`
}

// TestStatus 硬件测试状态
type TestStatus int

const (
	TestStatusNone     TestStatus = -1
	TestStatusPending  TestStatus = 0
	TestStatusRunning  TestStatus = 1
	TestStatusPassed   TestStatus = 2
	TestStatusFailed   TestStatus = 3
	TestStatusTimeout  TestStatus = 4
	TestStatusAborted  TestStatus = 5
	TestStatusDegraded TestStatus = 6
)

// Partition 分区
type Partition struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Size       int64       `json:"size"`
	Filesystem *Filesystem `json:"filesystem"`
	Tags       []string    `json:"tags"`
	Type       DiskType    `json:"type"`
	UsedFor    string      `json:"used_for"`
}

// Disk 块设备
type Disk struct {
	ID                 int64        `json:"id"`
	Name               string       `json:"name"`
	Path               string       `json:"path"`
	Serial             string       `json:"serial"`
	Model              string       `json:"model"`
	FirmwareVersion    string       `json:"firmware_version"`
	Size               int64        `json:"size"`
	AvailableSize      int64        `json:"available_size"`
	UsedSize           int64        `json:"used_size"`
	BlockSize          int64        `json:"block_size"`
	Filesystem         *Filesystem  `json:"filesystem"`
	IsBoot             bool         `json:"is_boot"`
	NUMANode           *int         `json:"numa_node,omitempty"`
	NUMANodes          []int        `json:"numa_nodes,omitempty"`
	Parent             *DiskParent  `json:"parent"`
	PartitionTableType string       `json:"partition_table_type"`
	Partitions         []*Partition `json:"partitions"`
	Tags               []string     `json:"tags"`
	TestStatus         TestStatus   `json:"test_status"`
	Type               DiskType     `json:"type"`
	UsedFor            string       `json:"used_for"`
}

// StorageDevice 磁盘或分区
// *Disk 与 *Partition 实现该接口，调用方通过类型断言区分
type StorageDevice interface {
	DeviceID() int64
	DeviceType() DiskType
	DeviceName() string
	DeviceSize() int64
	DeviceFilesystem() *Filesystem
	DeviceTags() []string
}

func (d *Disk) DeviceID() int64                    { return d.ID }
func (d *Disk) DeviceType() DiskType               { return d.Type }
func (d *Disk) DeviceName() string                 { return d.Name }
func (d *Disk) DeviceSize() int64                  { return d.Size }
func (d *Disk) DeviceFilesystem() *Filesystem      { return d.Filesystem }
func (d *Disk) DeviceTags() []string               { return d.Tags }
func (p *Partition) DeviceID() int64               { return p.ID }
func (p *Partition) DeviceType() DiskType          { return DiskTypePartition }
func (p *Partition) DeviceName() string            { return p.Name }
func (p *Partition) DeviceSize() int64             { return p.Size }
func (p *Partition) DeviceFilesystem() *Filesystem { return p.Filesystem }
func (p *Partition) DeviceTags() []string          { return p.Tags }

// DeviceRef 通过 ID 与类型引用一个磁盘或分区
// 磁盘与分区的 ID 空间相互独立，必须同时比较类型
type DeviceRef struct {
	ID   int64    `json:"id"`
	Type DiskType `json:"type"`
}
