package storage

import (
	"github.com/jimyag/jfm/internal/jfm/entity"
)

// DeviceAction 针对单个设备的操作
type DeviceAction string

const (
	ActionCreateBcache        DeviceAction = "createBcache"
	ActionCreateCacheSet      DeviceAction = "createCacheSet"
	ActionCreateLogicalVolume DeviceAction = "createLogicalVolume"
	ActionCreatePartition     DeviceAction = "createPartition"
	ActionDeleteDisk          DeviceAction = "deleteDisk"
	ActionDeletePartition     DeviceAction = "deletePartition"
	ActionDeleteVolumeGroup   DeviceAction = "deleteVolumeGroup"
	ActionEditDisk            DeviceAction = "editDisk"
	ActionEditPartition       DeviceAction = "editPartition"
	ActionSetBootDisk         DeviceAction = "setBootDisk"
)

// BulkAction 针对多个设备的操作
type BulkAction string

const (
	BulkActionCreateDatastore   BulkAction = "createDatastore"
	BulkActionCreateRaid        BulkAction = "createRaid"
	BulkActionCreateVolumeGroup BulkAction = "createVolumeGroup"
	BulkActionUpdateDatastore   BulkAction = "updateDatastore"
)

// View 侧边栏表单标识
type View string

const (
	ViewAddLogicalVolume  View = "addLogicalVolume"
	ViewAddPartition      View = "addPartition"
	ViewCreateBcache      View = "createBcache"
	ViewCreateCacheSet    View = "createCacheSet"
	ViewSetBootDisk       View = "setBootDisk"
	ViewEditDisk          View = "editDisk"
	ViewDeleteVolumeGroup View = "deleteVolumeGroup"
	ViewDeleteDisk        View = "deleteDisk"
	ViewEditPartition     View = "editPartition"
	ViewDeletePartition   View = "deletePartition"
	ViewCreateVolumeGroup View = "createVolumeGroup"
	ViewCreateRaid        View = "createRaid"
	ViewCreateDatastore   View = "createDatastore"
	ViewUpdateDatastore   View = "updateDatastore"
)

// ViewExtras 打开表单时携带的上下文
type ViewExtras struct {
	SystemID    string `json:"system_id"`
	DiskID      *int64 `json:"disk_id,omitempty"`
	PartitionID *int64 `json:"partition_id,omitempty"`
}

// MenuItem 行操作菜单中的一项
type MenuItem struct {
	Action DeviceAction `json:"action"`
	Label  string       `json:"label"` // 菜单文案，例如 "Add partition..."
	Title  string       `json:"title"` // 表单标题，例如 "Add partition"
	View   View         `json:"view"`
	Extras ViewExtras   `json:"extras"`
}

// RowActions 计算某一行的操作菜单，顺序固定
// 只有机器有操作菜单，控制器返回 nil
func RowActions(node *entity.Node, row Row) []MenuItem {
	if !node.IsMachine() || isNil(row.Device) {
		return nil
	}

	switch dev := row.Device.(type) {
	case *entity.Disk:
		return diskActions(node, dev)
	case *entity.Partition:
		return partitionActions(node, dev, row.ParentDisk)
	default:
		return nil
	}
}

func diskActions(node *entity.Node, disk *entity.Disk) []MenuItem {
	diskID := disk.ID
	extras := ViewExtras{SystemID: node.SystemID, DiskID: &diskID}
	sentenceType := FormatType(disk, true)

	var items []MenuItem
	add := func(action DeviceAction, label, title string, view View) {
		items = append(items, MenuItem{Action: action, Label: label, Title: title, View: view, Extras: extras})
	}

	if CanCreateLogicalVolume(disk) {
		add(ActionCreateLogicalVolume, "Add logical volume...", "Add logical volume", ViewAddLogicalVolume)
	}
	if CanBePartitioned(disk) {
		add(ActionCreatePartition, "Add partition...", "Add partition", ViewAddPartition)
	}
	if CanCreateBcache(node.Disks, disk) {
		add(ActionCreateBcache, "Create bcache...", "Create bcache", ViewCreateBcache)
	}
	if CanCreateCacheSet(disk) {
		add(ActionCreateCacheSet, "Create cache set...", "Create cache set", ViewCreateCacheSet)
	}
	if CanSetBootDisk(node.DetectedStorageLayout, disk) {
		add(ActionSetBootDisk, "Set boot disk...", "Set boot disk", ViewSetBootDisk)
	}
	if !IsVolumeGroup(disk) {
		add(ActionEditDisk, "Edit "+sentenceType+"...", "Edit "+sentenceType, ViewEditDisk)
	}
	if CanBeDeleted(disk) {
		if IsVolumeGroup(disk) {
			add(ActionDeleteVolumeGroup, "Remove volume group...", "Remove volume group", ViewDeleteVolumeGroup)
		} else {
			add(ActionDeleteDisk, "Remove "+sentenceType+"...", "Remove "+sentenceType, ViewDeleteDisk)
		}
	}
	return items
}

func partitionActions(node *entity.Node, partition *entity.Partition, parent *entity.Disk) []MenuItem {
	partitionID := partition.ID
	extras := ViewExtras{SystemID: node.SystemID, PartitionID: &partitionID}
	// 编辑分区需要父磁盘信息
	editExtras := extras
	if parent != nil {
		parentID := parent.ID
		editExtras.DiskID = &parentID
	}

	items := []MenuItem{
		{Action: ActionEditPartition, Label: "Edit partition...", Title: "Edit partition", View: ViewEditPartition, Extras: editExtras},
	}
	if CanCreateBcache(node.Disks, partition) {
		items = append(items, MenuItem{Action: ActionCreateBcache, Label: "Create bcache...", Title: "Create bcache", View: ViewCreateBcache, Extras: extras})
	}
	if CanCreateCacheSet(partition) {
		items = append(items, MenuItem{Action: ActionCreateCacheSet, Label: "Create cache set...", Title: "Create cache set", View: ViewCreateCacheSet, Extras: extras})
	}
	items = append(items, MenuItem{Action: ActionDeletePartition, Label: "Remove partition...", Title: "Remove partition", View: ViewDeletePartition, Extras: extras})
	return items
}

// ActionAllowed 判断设备当前是否允许执行指定操作，与菜单计算保持一致
func ActionAllowed(node *entity.Node, dev entity.StorageDevice, action DeviceAction) bool {
	if node == nil || isNil(dev) {
		return false
	}
	var parent *entity.Disk
	if p, ok := dev.(*entity.Partition); ok {
		parent = GetParentDisk(node.Disks, p.ID)
	}
	for _, item := range RowActions(node, Row{Device: dev, ParentDisk: parent}) {
		if item.Action == action {
			return true
		}
	}
	return false
}
