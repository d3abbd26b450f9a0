package storage

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jimyag/jfm/internal/jfm/entity"
)

// 表头
var (
	HeadersMachine    = []string{"Name & Serial", "Model & Firmware", "Boot", "Size", "Type & NUMA node", "Health & Tags", "Actions"}
	HeadersController = []string{"Name & Serial", "Model & Firmware", "Boot", "Size", "Type & NUMA node", "Health & Tags"}
)

// Cell 上下两行的单元格
type Cell struct {
	Primary   string    `json:"primary"`
	Secondary string    `json:"secondary,omitempty"`
	Links     []TagLink `json:"links,omitempty"`
}

// TagLink 标签及其筛选链接
type TagLink struct {
	Tag string `json:"tag"`
	URL string `json:"url"`
}

// TableRow 可用存储表中渲染后的一行
type TableRow struct {
	Key           string           `json:"key"`
	Ref           entity.DeviceRef `json:"ref"`
	ParentDiskID  *int64           `json:"parent_disk_id,omitempty"`
	Selected      bool             `json:"selected"`
	NameSerial    Cell             `json:"name_serial"`
	ModelFirmware Cell             `json:"model_firmware"`
	Boot          Cell             `json:"boot"`
	Size          Cell             `json:"size"`
	TypeNUMA      Cell             `json:"type_numa"`
	HealthTags    Cell             `json:"health_tags"`
	Actions       []MenuItem       `json:"actions,omitempty"`
}

// Table 可用存储表
type Table struct {
	SystemID        string     `json:"system_id"`
	IsMachine       bool       `json:"is_machine"`
	ActionsDisabled bool       `json:"actions_disabled"`
	Headers         []string   `json:"headers"`
	Rows            []TableRow `json:"rows"`
	// Requests 节点上各存储操作最近一次请求的状态，失败时带有字段错误
	Requests map[string]entity.ActionStatus `json:"requests,omitempty"`
}

// BuildTable 把节点投影为可用存储表
// selected 会先按当前记录校正，行上的 Selected 与校正结果一致
func BuildTable(node *entity.Node, selected []entity.DeviceRef) *Table {
	isMachine := node.IsMachine()
	table := &Table{
		SystemID:        node.SystemID,
		IsMachine:       isMachine,
		ActionsDisabled: !CanEditStorage(node),
		Headers:         HeadersController,
		Rows:            []TableRow{},
	}
	if isMachine {
		table.Headers = HeadersMachine
	}

	selected = ReconcileSelection(node.Disks, selected)
	for _, row := range AvailableRows(node.Disks) {
		tr := TableRow{
			Key:           UniqueID(row.Device),
			Ref:           row.Ref(),
			Selected:      IsSelected(row.Device, selected),
			NameSerial:    nameCell(row.Device),
			ModelFirmware: modelCell(row.Device),
			Boot:          bootCell(row.Device),
			Size:          sizeCell(row.Device),
			TypeNUMA:      typeCell(row.Device),
			HealthTags:    healthCell(node, row.Device),
		}
		if row.ParentDisk != nil {
			parentID := row.ParentDisk.ID
			tr.ParentDiskID = &parentID
		}
		if isMachine {
			tr.Actions = RowActions(node, row)
		}
		table.Rows = append(table.Rows, tr)
	}
	return table
}

func nameCell(dev entity.StorageDevice) Cell {
	cell := Cell{Primary: dev.DeviceName()}
	if disk, ok := dev.(*entity.Disk); ok {
		cell.Secondary = disk.Serial
	}
	return cell
}

func modelCell(dev entity.StorageDevice) Cell {
	disk, ok := dev.(*entity.Disk)
	if !ok {
		return Cell{Primary: EmptyValue}
	}
	return Cell{Primary: disk.Model, Secondary: disk.FirmwareVersion}
}

func bootCell(dev entity.StorageDevice) Cell {
	disk, ok := dev.(*entity.Disk)
	if !ok || !IsPhysical(disk) {
		return Cell{Primary: EmptyValue}
	}
	if disk.IsBoot {
		return Cell{Primary: "Yes"}
	}
	return Cell{Primary: "No"}
}

func sizeCell(dev entity.StorageDevice) Cell {
	cell := Cell{Primary: FormatSize(dev.DeviceSize())}
	if disk, ok := dev.(*entity.Disk); ok {
		cell.Secondary = "Free: " + FormatSize(disk.AvailableSize)
	}
	return cell
}

func typeCell(dev entity.StorageDevice) Cell {
	cell := Cell{Primary: FormatType(dev, false)}
	if disk, ok := dev.(*entity.Disk); ok {
		cell.Secondary = FormatNUMANodes(disk)
	}
	return cell
}

func healthCell(node *entity.Node, dev entity.StorageDevice) Cell {
	cell := Cell{Primary: EmptyValue}
	if disk, ok := dev.(*entity.Disk); ok {
		cell.Primary = FormatTestStatus(disk.TestStatus)
	}
	for _, tag := range dev.DeviceTags() {
		cell.Links = append(cell.Links, TagLink{Tag: tag, URL: StorageTagURL(node, tag)})
	}
	cell.Secondary = strings.Join(dev.DeviceTags(), ", ")
	return cell
}

// StorageTagURL 返回按存储标签筛选节点列表的链接
func StorageTagURL(node *entity.Node, tag string) string {
	base := "/controllers"
	if node.IsMachine() {
		base = "/machines"
	}
	query := url.Values{"storage_tags": []string{"=" + tag}}
	return base + "?" + query.Encode()
}

// FormatNUMANodes 格式化磁盘所在的 NUMA 节点
func FormatNUMANodes(disk *entity.Disk) string {
	if len(disk.NUMANodes) > 0 {
		nodes := make([]string, 0, len(disk.NUMANodes))
		for _, n := range disk.NUMANodes {
			nodes = append(nodes, strconv.Itoa(n))
		}
		return strings.Join(nodes, ", ")
	}
	if disk.NUMANode != nil {
		return strconv.Itoa(*disk.NUMANode)
	}
	return ""
}

// FormatTestStatus 格式化硬件测试状态
func FormatTestStatus(status entity.TestStatus) string {
	switch status {
	case entity.TestStatusPassed:
		return "OK"
	case entity.TestStatusFailed, entity.TestStatusTimeout:
		return "Error"
	case entity.TestStatusDegraded:
		return "Degraded"
	case entity.TestStatusPending:
		return "Pending"
	case entity.TestStatusRunning:
		return "Running"
	case entity.TestStatusAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}
