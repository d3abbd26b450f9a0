package entity

import "slices"

// NodeType 节点类型，取值与后端保持一致
type NodeType int

const (
	NodeTypeMachine                 NodeType = 0 // 机器
	NodeTypeDevice                  NodeType = 1 // 设备
	NodeTypeRackController          NodeType = 2 // 机架控制器
	NodeTypeRegionController        NodeType = 3 // 区域控制器
	NodeTypeRegionAndRackController NodeType = 4 // 区域 + 机架控制器
)

// IsController 是否为控制器类节点
func (t NodeType) IsController() bool {
	return t == NodeTypeRackController ||
		t == NodeTypeRegionController ||
		t == NodeTypeRegionAndRackController
}

// String 返回节点类型名称
func (t NodeType) String() string {
	switch t {
	case NodeTypeMachine:
		return "machine"
	case NodeTypeDevice:
		return "device"
	case NodeTypeRackController:
		return "rack-controller"
	case NodeTypeRegionController:
		return "region-controller"
	case NodeTypeRegionAndRackController:
		return "region-and-rack-controller"
	default:
		return "unknown"
	}
}

// NodeStatusCode 节点状态码
type NodeStatusCode int

const (
	NodeStatusNew                      NodeStatusCode = 0
	NodeStatusCommissioning            NodeStatusCode = 1
	NodeStatusFailedCommissioning      NodeStatusCode = 2
	NodeStatusMissing                  NodeStatusCode = 3
	NodeStatusReady                    NodeStatusCode = 4
	NodeStatusReserved                 NodeStatusCode = 5
	NodeStatusDeployed                 NodeStatusCode = 6
	NodeStatusRetired                  NodeStatusCode = 7
	NodeStatusBroken                   NodeStatusCode = 8
	NodeStatusDeploying                NodeStatusCode = 9
	NodeStatusAllocated                NodeStatusCode = 10
	NodeStatusFailedDeployment         NodeStatusCode = 11
	NodeStatusReleasing                NodeStatusCode = 12
	NodeStatusFailedReleasing          NodeStatusCode = 13
	NodeStatusDiskErasing              NodeStatusCode = 14
	NodeStatusFailedDiskErasing        NodeStatusCode = 15
	NodeStatusRescueMode               NodeStatusCode = 16
	NodeStatusEnteringRescueMode       NodeStatusCode = 17
	NodeStatusFailedEnteringRescueMode NodeStatusCode = 18
	NodeStatusExitingRescueMode        NodeStatusCode = 19
	NodeStatusFailedExitingRescueMode  NodeStatusCode = 20
	NodeStatusTesting                  NodeStatusCode = 21
	NodeStatusFailedTesting            NodeStatusCode = 22
)

// StorageLayout 存储布局
type StorageLayout string

const (
	StorageLayoutBcache  StorageLayout = "bcache"
	StorageLayoutBlank   StorageLayout = "blank"
	StorageLayoutCustom  StorageLayout = "custom"
	StorageLayoutFlat    StorageLayout = "flat"
	StorageLayoutLVM     StorageLayout = "lvm"
	StorageLayoutUnknown StorageLayout = "unknown"
	StorageLayoutVMFS6   StorageLayout = "vmfs6"
	StorageLayoutVMFS7   StorageLayout = "vmfs7"
)

// PermissionEdit 允许修改节点配置的权限
const PermissionEdit = "edit"

// Node 节点信息（机器或控制器），由后端整体下发
type Node struct {
	SystemID              string         `json:"system_id"`
	Hostname              string         `json:"hostname"`
	FQDN                  string         `json:"fqdn"`
	NodeType              NodeType       `json:"node_type"`
	OSystem               string         `json:"osystem"`
	DistroSeries          string         `json:"distro_series"`
	Status                string         `json:"status"`
	StatusCode            NodeStatusCode `json:"status_code"`
	Permissions           []string       `json:"permissions"`
	Locked                bool           `json:"locked"`
	DetectedStorageLayout StorageLayout  `json:"detected_storage_layout"`
	Disks                 []*Disk        `json:"disks"`
}

// IsMachine 是否为机器
func (n *Node) IsMachine() bool {
	return n != nil && n.NodeType == NodeTypeMachine
}

// IsController 是否为控制器
func (n *Node) IsController() bool {
	return n != nil && n.NodeType.IsController()
}

// HasPermission 当前用户是否拥有该节点的指定权限
func (n *Node) HasPermission(permission string) bool {
	if n == nil {
		return false
	}
	return slices.Contains(n.Permissions, permission)
}

// HasDetails 是否已经加载了磁盘等详情
// 列表接口只返回概要，详情需要单独获取
func (n *Node) HasDetails() bool {
	return n != nil && n.Disks != nil
}
