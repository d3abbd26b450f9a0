package wsrpc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MessageType 消息类型
type MessageType int

const (
	TypeRequest  MessageType = 0
	TypeResponse MessageType = 1
	TypeNotify   MessageType = 2
)

// ResponseType 响应结果类型
type ResponseType int

const (
	ResponseSuccess ResponseType = 0
	ResponseError   ResponseType = 1
)

// 通知动作
const (
	NotifyCreate = "create"
	NotifyUpdate = "update"
	NotifyDelete = "delete"
)

// request 发往后端的请求
type request struct {
	Type      MessageType     `json:"type"`
	RequestID uint64          `json:"request_id"`
	Method    string          `json:"method"`
	Params    json.RawMessage `json:"params"`
}

// message 后端下发的响应或通知
type message struct {
	Type      MessageType     `json:"type"`
	RequestID uint64          `json:"request_id,omitempty"`
	RType     ResponseType    `json:"rtype,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
	Name      string          `json:"name,omitempty"`
	Action    string          `json:"action,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Notification 后端推送的数据变更
type Notification struct {
	Name   string          `json:"name"`   // 模型名称，例如 machine
	Action string          `json:"action"` // create / update / delete
	Data   json.RawMessage `json:"data"`
}

// NonFieldErrors 非字段级别错误在 Fields 中使用的键
const NonFieldErrors = "__all__"

// ServerError 后端返回的请求错误
// Payload 可能是字段错误对象、普通字符串，或编码成字符串的字段错误对象
type ServerError struct {
	Method  string
	Payload json.RawMessage
}

// Error 实现 error 接口
func (e *ServerError) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for field, msgs := range fields {
		if field == NonFieldErrors {
			parts = append(parts, strings.Join(msgs, " "))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, " ")))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s failed", e.Method)
	}
	return fmt.Sprintf("%s failed: %s", e.Method, strings.Join(parts, "; "))
}

// Fields 把错误负载解析为 字段 -> 错误信息列表
func (e *ServerError) Fields() map[string][]string {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return map[string][]string{}
	}

	if fields, ok := decodeFields(e.Payload); ok {
		return fields
	}

	var text string
	if err := json.Unmarshal(e.Payload, &text); err == nil {
		// 后端有时会把字段错误对象再编码成字符串
		if fields, ok := decodeFields([]byte(text)); ok {
			return fields
		}
		return map[string][]string{NonFieldErrors: {text}}
	}
	return map[string][]string{NonFieldErrors: {string(e.Payload)}}
}

func decodeFields(data []byte) (map[string][]string, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	fields := make(map[string][]string, len(raw))
	for field, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			fields[field] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			fields[field] = []string{single}
			continue
		}
		fields[field] = []string{string(value)}
	}
	return fields, true
}
