package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/pkg/ginx"
	"github.com/rs/zerolog"
)

// NodeServiceInterface 定义节点服务的接口
type NodeServiceInterface interface {
	ListNodes(ctx context.Context, req *entity.ListNodesRequest) ([]*entity.Node, error)
	DescribeNode(ctx context.Context, systemID string) (*entity.Node, error)
	SyncNodes(ctx context.Context) (*entity.SyncNodesResponse, error)
}

// NodeAPI 节点 API
type NodeAPI struct {
	nodeService NodeServiceInterface
}

// NewNodeAPI 创建节点 API
func NewNodeAPI(nodeService NodeServiceInterface) *NodeAPI {
	return &NodeAPI{
		nodeService: nodeService,
	}
}

// RegisterRoutes 注册路由
func (a *NodeAPI) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/list-nodes", ginx.Adapt5(a.ListNodes))
	r.POST("/describe-node", ginx.Adapt5(a.DescribeNode))
	r.POST("/sync-nodes", ginx.Adapt3(a.SyncNodes))
}

// ListNodes 列举节点
func (a *NodeAPI) ListNodes(ctx *gin.Context, req *entity.ListNodesRequest) (*entity.ListNodesResponse, error) {
	nodes, err := a.nodeService.ListNodes(ctx, req)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []*entity.Node{}
	}
	return &entity.ListNodesResponse{Nodes: nodes}, nil
}

// DescribeNode 查询节点详情
func (a *NodeAPI) DescribeNode(ctx *gin.Context, req *entity.DescribeNodeRequest) (*entity.DescribeNodeResponse, error) {
	node, err := a.nodeService.DescribeNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeNodeResponse{Node: node}, nil
}

// SyncNodes 立即从后端全量同步
func (a *NodeAPI) SyncNodes(ctx *gin.Context) (*entity.SyncNodesResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("SyncNodes called")

	result, err := a.nodeService.SyncNodes(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to sync nodes")
		return nil, err
	}

	logger.Info().
		Int("machines", result.Machines).
		Int("controllers", result.Controllers).
		Msg("Nodes synced successfully")
	return result, nil
}
