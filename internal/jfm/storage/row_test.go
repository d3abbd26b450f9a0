package storage

import (
	"testing"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storageFixture 构造一个包含多种设备的节点磁盘列表
func storageFixture() []*entity.Disk {
	sda := newDisk(1, "sda", entity.DiskTypePhysical)
	sda.Partitions = []*entity.Partition{newPartition(1, "sda-part1"), newPartition(2, "sda-part2")}
	sda.Partitions[1].Filesystem = mountedFS("ext4", "/")

	small := newDisk(2, "sdb", entity.DiskTypePhysical)
	small.AvailableSize = entity.MinPartitionSize - 1
	small.Partitions = []*entity.Partition{newPartition(3, "sdb-part1")}

	datastore := newDisk(3, "datastore1", entity.DiskTypePhysical)
	datastore.Filesystem = mountedFS("vmfs6", entity.MountPointReserved)

	sdc := newDisk(4, "sdc", entity.DiskTypePhysical)
	return []*entity.Disk{sda, small, datastore, sdc}
}

func TestAvailableRows(t *testing.T) {
	t.Parallel()

	rows := AvailableRows(storageFixture())

	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, UniqueID(row.Device))
	}
	// sdb 容量不足被过滤，但其分区仍然可用；数据存储与已挂载分区被过滤
	assert.Equal(t, []string{"physical-1", "partition-1", "partition-3", "physical-4"}, keys)

	require.NotNil(t, rows[1].ParentDisk)
	assert.Equal(t, int64(1), rows[1].ParentDisk.ID)
	assert.Equal(t, int64(2), rows[2].ParentDisk.ID)
	assert.Nil(t, rows[0].ParentDisk)
}

func TestAvailableRowsExcludesDatastores(t *testing.T) {
	t.Parallel()

	for _, row := range AvailableRows(storageFixture()) {
		assert.False(t, IsDatastore(row.Device.DeviceFilesystem()), UniqueID(row.Device))
	}
}

func TestSelection(t *testing.T) {
	t.Parallel()

	disks := storageFixture()
	all := SelectAll(disks)
	assert.Len(t, all, 4)

	// 磁盘 1 与分区 1 ID 相同，只能通过类型区分
	selected := []entity.DeviceRef{{ID: 1, Type: entity.DiskTypePartition}}
	assert.True(t, IsSelected(disks[0].Partitions[0], selected))
	assert.False(t, IsSelected(disks[0], selected))

	assert.Empty(t, ToggleAll(disks, selected))
	assert.Equal(t, all, ToggleAll(disks, nil))
}

func TestReconcileSelection(t *testing.T) {
	t.Parallel()

	disks := storageFixture()
	selected := []entity.DeviceRef{
		{ID: 4, Type: entity.DiskTypePhysical},
		{ID: 1, Type: entity.DiskTypePartition},
		{ID: 99, Type: entity.DiskTypePhysical}, // 已删除
		{ID: 2, Type: entity.DiskTypePartition}, // 已挂载
		{ID: 4, Type: entity.DiskTypePhysical},  // 重复
	}

	got := ReconcileSelection(disks, selected)
	assert.Equal(t, []entity.DeviceRef{
		{ID: 4, Type: entity.DiskTypePhysical},
		{ID: 1, Type: entity.DiskTypePartition},
	}, got)

	// 磁盘被格式化后不再可用
	disks[3].Filesystem = mountedFS("ext4", "/data")
	got = ReconcileSelection(disks, got)
	assert.Equal(t, []entity.DeviceRef{{ID: 1, Type: entity.DiskTypePartition}}, got)
}
