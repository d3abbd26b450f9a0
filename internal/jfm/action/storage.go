package action

// 所有参数结构都带上 system_id，字段名与后端一致

// CreatePartitionParams 创建分区
type CreatePartitionParams struct {
	SystemID      string `json:"system_id"`
	BlockID       int64  `json:"block_id"`
	PartitionSize int64  `json:"partition_size"`
	FSType        string `json:"fstype,omitempty"`
	MountPoint    string `json:"mount_point,omitempty"`
	MountOptions  string `json:"mount_options,omitempty"`
}

// CreateVolumeGroupParams 创建卷组
type CreateVolumeGroupParams struct {
	SystemID     string  `json:"system_id"`
	Name         string  `json:"name"`
	BlockDevices []int64 `json:"block_devices"`
	Partitions   []int64 `json:"partitions"`
}

// CreateRaidParams 创建 RAID
type CreateRaidParams struct {
	SystemID        string  `json:"system_id"`
	Name            string  `json:"name"`
	Level           string  `json:"level"`
	BlockDevices    []int64 `json:"block_devices"`
	Partitions      []int64 `json:"partitions"`
	SpareDevices    []int64 `json:"spare_devices"`
	SparePartitions []int64 `json:"spare_partitions"`
	FSType          string  `json:"fstype,omitempty"`
	MountPoint      string  `json:"mount_point,omitempty"`
	MountOptions    string  `json:"mount_options,omitempty"`
}

// CreateCacheSetParams 创建缓存集，block_id 与 partition_id 二选一
type CreateCacheSetParams struct {
	SystemID    string `json:"system_id"`
	BlockID     *int64 `json:"block_id,omitempty"`
	PartitionID *int64 `json:"partition_id,omitempty"`
}

// CreateBcacheParams 创建 bcache，block_id 与 partition_id 二选一
type CreateBcacheParams struct {
	SystemID     string `json:"system_id"`
	Name         string `json:"name"`
	CacheSet     int64  `json:"cache_set"`
	CacheMode    string `json:"cache_mode"`
	BlockID      *int64 `json:"block_id,omitempty"`
	PartitionID  *int64 `json:"partition_id,omitempty"`
	FSType       string `json:"fstype,omitempty"`
	MountPoint   string `json:"mount_point,omitempty"`
	MountOptions string `json:"mount_options,omitempty"`
}

// CreateLogicalVolumeParams 在卷组上创建逻辑卷
type CreateLogicalVolumeParams struct {
	SystemID      string `json:"system_id"`
	VolumeGroupID int64  `json:"volume_group_id"`
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	FSType        string `json:"fstype,omitempty"`
	MountPoint    string `json:"mount_point,omitempty"`
	MountOptions  string `json:"mount_options,omitempty"`
}

// CreateVmfsDatastoreParams 创建 VMFS 数据存储
type CreateVmfsDatastoreParams struct {
	SystemID     string  `json:"system_id"`
	Name         string  `json:"name"`
	BlockDevices []int64 `json:"block_devices"`
	Partitions   []int64 `json:"partitions"`
}

// UpdateVmfsDatastoreParams 扩展已有数据存储
type UpdateVmfsDatastoreParams struct {
	SystemID        string  `json:"system_id"`
	VmfsDatastoreID int64   `json:"vmfs_datastore_id"`
	AddBlockDevices []int64 `json:"add_block_devices"`
	AddPartitions   []int64 `json:"add_partitions"`
}

// DeleteDiskParams 删除磁盘
type DeleteDiskParams struct {
	SystemID string `json:"system_id"`
	BlockID  int64  `json:"block_id"`
}

// DeletePartitionParams 删除分区
type DeletePartitionParams struct {
	SystemID    string `json:"system_id"`
	PartitionID int64  `json:"partition_id"`
}

// DeleteVolumeGroupParams 删除卷组
type DeleteVolumeGroupParams struct {
	SystemID      string `json:"system_id"`
	VolumeGroupID int64  `json:"volume_group_id"`
}

// DeleteCacheSetParams 删除缓存集
type DeleteCacheSetParams struct {
	SystemID   string `json:"system_id"`
	CacheSetID int64  `json:"cache_set_id"`
}

// SetBootDiskParams 设置启动盘
type SetBootDiskParams struct {
	SystemID string `json:"system_id"`
	BlockID  int64  `json:"block_id"`
}

// UpdateDiskParams 修改磁盘名称、标签与文件系统
type UpdateDiskParams struct {
	SystemID     string   `json:"system_id"`
	BlockID      int64    `json:"block_id"`
	Name         string   `json:"name,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	FSType       string   `json:"fstype,omitempty"`
	MountPoint   string   `json:"mount_point,omitempty"`
	MountOptions string   `json:"mount_options,omitempty"`
}

// CreatePartition machine.create_partition
func CreatePartition(p CreatePartitionParams) Envelope {
	return machine(NameCreatePartition, "create_partition", p.SystemID, p)
}

// CreateVolumeGroup machine.create_volume_group
func CreateVolumeGroup(p CreateVolumeGroupParams) Envelope {
	p.BlockDevices = nonNil(p.BlockDevices)
	p.Partitions = nonNil(p.Partitions)
	return machine(NameCreateVolumeGroup, "create_volume_group", p.SystemID, p)
}

// CreateRaid machine.create_raid
func CreateRaid(p CreateRaidParams) Envelope {
	p.BlockDevices = nonNil(p.BlockDevices)
	p.Partitions = nonNil(p.Partitions)
	p.SpareDevices = nonNil(p.SpareDevices)
	p.SparePartitions = nonNil(p.SparePartitions)
	return machine(NameCreateRaid, "create_raid", p.SystemID, p)
}

// CreateCacheSet machine.create_cache_set
func CreateCacheSet(p CreateCacheSetParams) Envelope {
	return machine(NameCreateCacheSet, "create_cache_set", p.SystemID, p)
}

// CreateBcache machine.create_bcache
func CreateBcache(p CreateBcacheParams) Envelope {
	return machine(NameCreateBcache, "create_bcache", p.SystemID, p)
}

// CreateLogicalVolume machine.create_logical_volume
func CreateLogicalVolume(p CreateLogicalVolumeParams) Envelope {
	return machine(NameCreateLogicalVolume, "create_logical_volume", p.SystemID, p)
}

// CreateVmfsDatastore machine.create_vmfs_datastore
func CreateVmfsDatastore(p CreateVmfsDatastoreParams) Envelope {
	p.BlockDevices = nonNil(p.BlockDevices)
	p.Partitions = nonNil(p.Partitions)
	return machine(NameCreateVmfsDatastore, "create_vmfs_datastore", p.SystemID, p)
}

// UpdateVmfsDatastore machine.update_vmfs_datastore
func UpdateVmfsDatastore(p UpdateVmfsDatastoreParams) Envelope {
	p.AddBlockDevices = nonNil(p.AddBlockDevices)
	p.AddPartitions = nonNil(p.AddPartitions)
	return machine(NameUpdateVmfsDatastore, "update_vmfs_datastore", p.SystemID, p)
}

// DeleteDisk machine.delete_disk
func DeleteDisk(p DeleteDiskParams) Envelope {
	return machine(NameDeleteDisk, "delete_disk", p.SystemID, p)
}

// DeletePartition machine.delete_partition
func DeletePartition(p DeletePartitionParams) Envelope {
	return machine(NameDeletePartition, "delete_partition", p.SystemID, p)
}

// DeleteVolumeGroup machine.delete_volume_group
func DeleteVolumeGroup(p DeleteVolumeGroupParams) Envelope {
	return machine(NameDeleteVolumeGroup, "delete_volume_group", p.SystemID, p)
}

// DeleteCacheSet machine.delete_cache_set
func DeleteCacheSet(p DeleteCacheSetParams) Envelope {
	return machine(NameDeleteCacheSet, "delete_cache_set", p.SystemID, p)
}

// SetBootDisk machine.set_boot_disk
func SetBootDisk(p SetBootDiskParams) Envelope {
	return machine(NameSetBootDisk, "set_boot_disk", p.SystemID, p)
}

// UpdateDisk machine.update_disk
func UpdateDisk(p UpdateDiskParams) Envelope {
	return machine(NameUpdateDisk, "update_disk", p.SystemID, p)
}

// nonNil 空列表也要编码为 []，后端不接受 null
func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
