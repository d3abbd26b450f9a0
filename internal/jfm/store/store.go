// Package store 保存从后端同步来的节点记录以及存储操作的请求状态
package store

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/pkg/wsrpc"
)

// Store 按 system id 归一化保存节点，读写都加锁
// Get/List 返回深拷贝，调用方可以随意修改
type Store struct {
	mu       sync.RWMutex
	nodes    map[string]*entity.Node
	order    []string
	statuses map[string]map[string]*entity.ActionStatus
}

// New 创建空的 Store
func New() *Store {
	return &Store{
		nodes:    make(map[string]*entity.Node),
		statuses: make(map[string]map[string]*entity.ActionStatus),
	}
}

// Upsert 写入节点
// 列表接口返回的节点不带磁盘信息，此时保留已有的磁盘详情
func (s *Store) Upsert(node *entity.Node) error {
	if node == nil || node.SystemID == "" {
		return fmt.Errorf("upsert node: empty system id")
	}
	copied, err := cloneNode(node)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.nodes[node.SystemID]
	if !ok {
		s.order = append(s.order, node.SystemID)
	} else if !copied.HasDetails() && existing.HasDetails() {
		copied.Disks = existing.Disks
	}
	s.nodes[node.SystemID] = copied
	return nil
}

// Remove 删除节点及其请求状态，返回节点是否存在
func (s *Store) Remove(systemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[systemID]; !ok {
		return false
	}
	delete(s.nodes, systemID)
	delete(s.statuses, systemID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == systemID })
	return true
}

// Get 返回节点的拷贝
func (s *Store) Get(systemID string) (*entity.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[systemID]
	if !ok {
		return nil, false
	}
	copied, err := cloneNode(node)
	if err != nil {
		return nil, false
	}
	return copied, true
}

// List 按写入顺序返回节点，types 为空时返回全部
func (s *Store) List(types ...entity.NodeType) []*entity.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*entity.Node, 0, len(s.order))
	for _, id := range s.order {
		node := s.nodes[id]
		if len(types) > 0 && !slices.Contains(types, node.NodeType) {
			continue
		}
		copied, err := cloneNode(node)
		if err != nil {
			continue
		}
		nodes = append(nodes, copied)
	}
	return nodes
}

// Len 节点数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Apply 应用后端推送的通知
// create/update 的 data 是完整节点，delete 的 data 是 system id
func (s *Store) Apply(n wsrpc.Notification) error {
	switch n.Action {
	case wsrpc.NotifyCreate, wsrpc.NotifyUpdate:
		var node entity.Node
		if err := json.Unmarshal(n.Data, &node); err != nil {
			return fmt.Errorf("decode %s %s notification: %w", n.Name, n.Action, err)
		}
		return s.Upsert(&node)
	case wsrpc.NotifyDelete:
		systemID, err := deletedSystemID(n.Data)
		if err != nil {
			return fmt.Errorf("decode %s delete notification: %w", n.Name, err)
		}
		s.Remove(systemID)
		return nil
	default:
		return fmt.Errorf("unknown notification action %q", n.Action)
	}
}

func deletedSystemID(data json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id, nil
	}
	var obj struct {
		SystemID string `json:"system_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", err
	}
	if obj.SystemID == "" {
		return "", fmt.Errorf("missing system_id")
	}
	return obj.SystemID, nil
}

// StartRequest 标记请求进行中，清空上一次的错误
func (s *Store) StartRequest(systemID, action string) {
	s.setStatus(systemID, action, &entity.ActionStatus{State: entity.RequestStatePending})
}

// SucceedRequest 标记请求成功
func (s *Store) SucceedRequest(systemID, action string) {
	s.setStatus(systemID, action, &entity.ActionStatus{State: entity.RequestStateSucceeded})
}

// FailRequest 标记请求失败，fields 为后端返回的字段级错误
func (s *Store) FailRequest(systemID, action, message string, fields map[string][]string) {
	s.setStatus(systemID, action, &entity.ActionStatus{
		State:  entity.RequestStateFailed,
		Error:  message,
		Fields: fields,
	})
}

// Status 返回节点上某类操作的状态
func (s *Store) Status(systemID, action string) (entity.ActionStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.statuses[systemID][action]
	if !ok {
		return entity.ActionStatus{}, false
	}
	return copyStatus(status), true
}

// Statuses 返回节点上全部操作的状态，没有记录时返回 nil
func (s *Store) Statuses(systemID string) map[string]entity.ActionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.statuses[systemID]) == 0 {
		return nil
	}
	statuses := make(map[string]entity.ActionStatus, len(s.statuses[systemID]))
	for action, status := range s.statuses[systemID] {
		statuses[action] = copyStatus(status)
	}
	return statuses
}

// ClearStatus 清除状态，action 为空时清除节点上的全部状态
func (s *Store) ClearStatus(systemID, action string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if action == "" {
		delete(s.statuses, systemID)
		return
	}
	delete(s.statuses[systemID], action)
}

func (s *Store) setStatus(systemID, action string, status *entity.ActionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statuses[systemID] == nil {
		s.statuses[systemID] = make(map[string]*entity.ActionStatus)
	}
	s.statuses[systemID][action] = status
}

func copyStatus(status *entity.ActionStatus) entity.ActionStatus {
	copied := *status
	copied.Fields = maps.Clone(status.Fields)
	for field, msgs := range copied.Fields {
		copied.Fields[field] = slices.Clone(msgs)
	}
	return copied
}

// cloneNode 通过 JSON 往返做深拷贝，保留 Disks 为 nil 与空切片的区别
func cloneNode(node *entity.Node) (*entity.Node, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("copy node %s: %w", node.SystemID, err)
	}
	copied := new(entity.Node)
	if err := json.Unmarshal(data, copied); err != nil {
		return nil, fmt.Errorf("copy node %s: %w", node.SystemID, err)
	}
	return copied, nil
}
