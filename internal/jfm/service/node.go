package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jimyag/jfm/internal/jfm/action"
	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/repository"
	"github.com/jimyag/jfm/internal/jfm/store"
	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/jimyag/jfm/pkg/wsrpc"
	"github.com/rs/zerolog"
)

// NodeService 节点服务：同步、查询节点，处理后端推送
type NodeService struct {
	store        *store.Store
	dispatcher   *Dispatcher
	snapshotRepo repository.NodeSnapshotRepository
}

// NewNodeService 创建节点服务
func NewNodeService(st *store.Store, dispatcher *Dispatcher, repo *repository.Repository) *NodeService {
	return &NodeService{
		store:        st,
		dispatcher:   dispatcher,
		snapshotRepo: repository.NewNodeSnapshotRepository(repo.DB()),
	}
}

// ListNodes 列举节点
func (s *NodeService) ListNodes(ctx context.Context, req *entity.ListNodesRequest) ([]*entity.Node, error) {
	var nodes []*entity.Node
	if req != nil && req.NodeType != nil {
		nodes = s.store.List(*req.NodeType)
	} else {
		nodes = s.store.List()
	}

	if req == nil || req.Hostname == "" {
		return nodes, nil
	}
	filtered := make([]*entity.Node, 0, len(nodes))
	for _, node := range nodes {
		if strings.HasPrefix(node.Hostname, req.Hostname) {
			filtered = append(filtered, node)
		}
	}
	return filtered, nil
}

// DescribeNode 查询节点详情
// 记录中没有磁盘信息且后端可用时，先从后端拉取详情
func (s *NodeService) DescribeNode(ctx context.Context, systemID string) (*entity.Node, error) {
	node, ok := s.store.Get(systemID)
	if !ok {
		return nil, apierror.WrapError(apierror.ErrNodeNotFound, fmt.Sprintf("node %s not found", systemID), nil)
	}
	if node.HasDetails() || !s.dispatcher.Connected() {
		return node, nil
	}

	detailed, err := s.fetchNode(ctx, modelOf(node), systemID)
	if errors.Is(err, apierror.ErrNodeNotFound) {
		return nil, err
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("systemID", systemID).Msg("Failed to fetch node details")
		return node, nil
	}
	return detailed, nil
}

// SyncNodes 从后端全量同步机器与控制器
// 两类节点都同步成功后，才会删除后端已不存在的节点
func (s *NodeService) SyncNodes(ctx context.Context) (*entity.SyncNodesResponse, error) {
	logger := zerolog.Ctx(ctx)
	result := &entity.SyncNodesResponse{}
	seen := make(map[string]struct{})

	for _, model := range []action.Model{action.ModelMachine, action.ModelController} {
		var summaries []*entity.Node
		if err := s.dispatcher.Call(ctx, action.ListNodes(model), &summaries); err != nil {
			return nil, err
		}

		for _, summary := range summaries {
			if summary == nil || summary.SystemID == "" {
				continue
			}
			seen[summary.SystemID] = struct{}{}

			if _, err := s.fetchNode(ctx, model, summary.SystemID); err != nil {
				// 详情获取失败时先保存概要，保留已有的磁盘信息
				logger.Warn().Err(err).Str("systemID", summary.SystemID).Msg("Failed to fetch node details, keeping summary")
				if err := s.save(ctx, summary); err != nil {
					return nil, err
				}
			}
			if model == action.ModelMachine {
				result.Machines++
			} else {
				result.Controllers++
			}
		}
	}

	for _, node := range s.store.List() {
		if _, ok := seen[node.SystemID]; ok {
			continue
		}
		s.store.Remove(node.SystemID)
		result.Removed++
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	if _, err := s.snapshotRepo.DeleteExcept(ctx, ids); err != nil {
		logger.Warn().Err(err).Msg("Failed to prune node snapshots")
	}

	logger.Info().
		Int("machines", result.Machines).
		Int("controllers", result.Controllers).
		Int("removed", result.Removed).
		Msg("Nodes synced")
	return result, nil
}

// HandleNotification 处理后端推送的节点变更
func (s *NodeService) HandleNotification(ctx context.Context, n wsrpc.Notification) error {
	if n.Name != string(action.ModelMachine) && n.Name != string(action.ModelController) {
		return nil
	}

	if err := s.store.Apply(n); err != nil {
		return err
	}

	if n.Action == wsrpc.NotifyDelete {
		systemIDs := s.knownIDs()
		_, err := s.snapshotRepo.DeleteExcept(ctx, systemIDs)
		return err
	}

	var ref struct {
		SystemID string `json:"system_id"`
	}
	if err := json.Unmarshal(n.Data, &ref); err != nil {
		return fmt.Errorf("decode %s notification: %w", n.Name, err)
	}
	node, ok := s.store.Get(ref.SystemID)
	if !ok {
		return nil
	}
	return s.persist(ctx, node)
}

// WarmStart 用本地快照填充 store，返回恢复的节点数
func (s *NodeService) WarmStart(ctx context.Context) (int, error) {
	snapshots, err := s.snapshotRepo.List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list node snapshots: %w", err)
	}

	restored := 0
	for _, snapshot := range snapshots {
		node, err := snapshotToNode(snapshot)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Skipping corrupt node snapshot")
			continue
		}
		if err := s.store.Upsert(node); err != nil {
			continue
		}
		restored++
	}
	return restored, nil
}

func (s *NodeService) fetchNode(ctx context.Context, model action.Model, systemID string) (*entity.Node, error) {
	var node entity.Node
	if err := s.dispatcher.Call(ctx, action.GetNode(model, systemID), &node); err != nil {
		return nil, err
	}
	if node.SystemID == "" {
		return nil, errors.New("backend returned a node without system_id")
	}
	if err := s.save(ctx, &node); err != nil {
		return nil, err
	}
	// 拉取期间可能收到删除通知
	detailed, ok := s.store.Get(systemID)
	if !ok {
		return nil, apierror.WrapError(apierror.ErrNodeNotFound, fmt.Sprintf("node %s not found", systemID), nil)
	}
	return detailed, nil
}

// save 写入 store 并持久化快照
func (s *NodeService) save(ctx context.Context, node *entity.Node) error {
	if err := s.store.Upsert(node); err != nil {
		return apierror.WrapError(apierror.ErrInternalError, err.Error(), err)
	}
	merged, ok := s.store.Get(node.SystemID)
	if !ok {
		return nil
	}
	return s.persist(ctx, merged)
}

func (s *NodeService) persist(ctx context.Context, node *entity.Node) error {
	snapshot, err := nodeToSnapshot(node)
	if err != nil {
		return err
	}
	if err := s.snapshotRepo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save node snapshot %s: %w", node.SystemID, err)
	}
	return nil
}

func (s *NodeService) knownIDs() []string {
	nodes := s.store.List()
	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.SystemID)
	}
	return ids
}

// modelOf 节点对应的后端模型
func modelOf(node *entity.Node) action.Model {
	if node.IsController() {
		return action.ModelController
	}
	return action.ModelMachine
}
