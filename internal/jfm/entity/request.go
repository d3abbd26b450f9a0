package entity

import "time"

// RequestState 后端请求状态
type RequestState string

const (
	RequestStatePending   RequestState = "pending"
	RequestStateSucceeded RequestState = "succeeded"
	RequestStateFailed    RequestState = "failed"
)

// ActionStatus 节点上某类操作最近一次请求的状态
type ActionStatus struct {
	State  RequestState        `json:"state"`
	Error  string              `json:"error,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"` // 后端校验错误，按字段展示在表单上
}

// StorageRequest 一次派发到后端的存储变更请求记录
type StorageRequest struct {
	ID        string              `json:"id"` // Request ID: req-{递增 ID}
	SystemID  string              `json:"system_id"`
	Action    string              `json:"action"`
	Method    string              `json:"method"`
	Params    string              `json:"params"` // JSON 编码的请求参数
	State     RequestState        `json:"state"`
	Error     string              `json:"error,omitempty"`
	Fields    map[string][]string `json:"fields,omitempty"` // 后端校验错误
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
