package action

// GetParams 获取单个节点详情的参数
type GetParams struct {
	SystemID string `json:"system_id"`
}

// ListNodes 列举指定模型的全部节点
func ListNodes(model Model) Envelope {
	return Envelope{Name: NameList, Model: model, Method: "list", Params: map[string]any{}}
}

// GetNode 获取节点详情（包含磁盘）
func GetNode(model Model, systemID string) Envelope {
	return Envelope{Name: NameGet, Model: model, Method: "get", SystemID: systemID, Params: GetParams{SystemID: systemID}}
}
