package storage

import (
	"slices"

	"github.com/jimyag/jfm/internal/jfm/entity"
)

// 批量操作按钮禁用时的提示
const (
	TooltipCreateDatastore   = "Select one or more unpartitioned and unformatted storage devices to create a datastore."
	TooltipUpdateDatastore   = "Select one or more unpartitioned and unformatted storage devices to add to an existing datastore."
	TooltipNoDatastore       = "At least one datastore must exist to use this feature."
	TooltipCreateRaid        = "Select two or more unpartitioned and unformatted storage devices to create a RAID."
	TooltipCreateVolumeGroup = "Select one or more unpartitioned and unformatted storage devices to create a volume group."
)

// BulkButton 批量操作栏中的按钮
type BulkButton struct {
	Action   BulkAction `json:"action"`
	Label    string     `json:"label"`
	View     View       `json:"view"`
	Disabled bool       `json:"disabled"`
	Tooltip  string     `json:"tooltip,omitempty"` // 仅在禁用时给出
}

// BulkActionsVisible 批量操作栏是否显示：可编辑存储的机器才显示
func BulkActionsVisible(node *entity.Node) bool {
	return node.IsMachine() && CanEditStorage(node)
}

// BulkActions 根据选中设备计算批量操作按钮
// VMware 布局提供数据存储相关操作，其余布局提供 RAID 与卷组
func BulkActions(node *entity.Node, selected []entity.StorageDevice) []BulkButton {
	if node == nil {
		return nil
	}

	if IsVMWareLayout(node.DetectedStorageLayout) {
		eligible := CanCreateOrUpdateDatastore(selected)
		hasDatastores := slices.ContainsFunc(node.Disks, func(disk *entity.Disk) bool {
			return disk != nil && IsDatastore(disk.Filesystem)
		})
		updateTooltip := TooltipUpdateDatastore
		if !hasDatastores {
			updateTooltip = TooltipNoDatastore
		}
		return []BulkButton{
			newBulkButton(BulkActionCreateDatastore, "Create datastore", ViewCreateDatastore, eligible, TooltipCreateDatastore),
			newBulkButton(BulkActionUpdateDatastore, "Add to existing datastore", ViewUpdateDatastore, hasDatastores && eligible, updateTooltip),
		}
	}

	return []BulkButton{
		newBulkButton(BulkActionCreateRaid, "Create RAID", ViewCreateRaid, CanCreateRaid(selected), TooltipCreateRaid),
		newBulkButton(BulkActionCreateVolumeGroup, "Create volume group", ViewCreateVolumeGroup, CanCreateVolumeGroup(selected), TooltipCreateVolumeGroup),
	}
}

// BulkActionAllowed 判断选中设备能否执行指定批量操作，与按钮状态保持一致
func BulkActionAllowed(node *entity.Node, selected []entity.StorageDevice, action BulkAction) bool {
	for _, button := range BulkActions(node, selected) {
		if button.Action == action {
			return !button.Disabled
		}
	}
	return false
}

func newBulkButton(action BulkAction, label string, view View, enabled bool, tooltip string) BulkButton {
	button := BulkButton{Action: action, Label: label, View: view, Disabled: !enabled}
	if !enabled {
		button.Tooltip = tooltip
	}
	return button
}
