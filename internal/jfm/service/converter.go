package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/repository/model"
	"github.com/jinzhu/copier"
)

// storageRequestEntityToModel 将 entity.StorageRequest 转换为 model.StorageRequest
func storageRequestEntityToModel(e *entity.StorageRequest) (*model.StorageRequest, error) {
	m := &model.StorageRequest{}
	if err := copier.Copy(m, e); err != nil {
		return nil, err
	}

	if len(e.Fields) > 0 {
		data, err := json.Marshal(e.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode request fields: %w", err)
		}
		m.FieldErrs = string(data)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	return m, nil
}

// storageRequestModelToEntity 将 model.StorageRequest 转换为 entity.StorageRequest
func storageRequestModelToEntity(m *model.StorageRequest) (*entity.StorageRequest, error) {
	e := &entity.StorageRequest{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	if m.FieldErrs != "" {
		if err := json.Unmarshal([]byte(m.FieldErrs), &e.Fields); err != nil {
			return nil, fmt.Errorf("decode request fields: %w", err)
		}
	}
	return e, nil
}

// podEntityToModel 将 entity.Pod 转换为 model.Pod
func podEntityToModel(e *entity.Pod) (*model.Pod, error) {
	m := &model.Pod{}
	if err := copier.Copy(m, e); err != nil {
		return nil, err
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = time.Now()
	return m, nil
}

// podModelToEntity 将 model.Pod 转换为 entity.Pod
func podModelToEntity(m *model.Pod) (*entity.Pod, error) {
	e := &entity.Pod{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	return e, nil
}

// nodeToSnapshot 把节点编码为快照
func nodeToSnapshot(node *entity.Node) (*model.NodeSnapshot, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode node %s: %w", node.SystemID, err)
	}
	now := time.Now()
	return &model.NodeSnapshot{
		SystemID:  node.SystemID,
		Hostname:  node.Hostname,
		NodeType:  int(node.NodeType),
		Data:      string(data),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// snapshotToNode 从快照还原节点
func snapshotToNode(m *model.NodeSnapshot) (*entity.Node, error) {
	node := &entity.Node{}
	if err := json.Unmarshal([]byte(m.Data), node); err != nil {
		return nil, fmt.Errorf("decode node snapshot %s: %w", m.SystemID, err)
	}
	if node.SystemID == "" {
		node.SystemID = m.SystemID
	}
	return node, nil
}
