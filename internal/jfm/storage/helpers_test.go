package storage

import (
	"github.com/jimyag/jfm/internal/jfm/entity"
)

const gb = int64(1000 * 1000 * 1000)

func newDisk(id int64, name string, diskType entity.DiskType) *entity.Disk {
	return &entity.Disk{
		ID:            id,
		Name:          name,
		Type:          diskType,
		Size:          100 * gb,
		AvailableSize: 100 * gb,
	}
}

func newVirtualDisk(id int64, name string, parent entity.DiskType) *entity.Disk {
	disk := newDisk(id, name, entity.DiskTypeVirtual)
	disk.Parent = &entity.DiskParent{ID: id + 100, Type: parent}
	return disk
}

func newPartition(id int64, name string) *entity.Partition {
	return &entity.Partition{ID: id, Name: name, Size: 10 * gb, Type: entity.DiskTypePartition}
}

func formattedFS(fstype string) *entity.Filesystem {
	return &entity.Filesystem{FSType: fstype, IsFormatFSType: true}
}

func mountedFS(fstype, mountPoint string) *entity.Filesystem {
	return &entity.Filesystem{FSType: fstype, IsFormatFSType: true, MountPoint: mountPoint}
}

func readyMachine(disks ...*entity.Disk) *entity.Node {
	return &entity.Node{
		SystemID:              "abc123",
		Hostname:              "node1",
		NodeType:              entity.NodeTypeMachine,
		OSystem:               "ubuntu",
		StatusCode:            entity.NodeStatusReady,
		Permissions:           []string{entity.PermissionEdit},
		DetectedStorageLayout: entity.StorageLayoutFlat,
		Disks:                 disks,
	}
}

func devices(devs ...entity.StorageDevice) []entity.StorageDevice {
	return devs
}
