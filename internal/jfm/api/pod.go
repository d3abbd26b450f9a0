package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/pkg/ginx"
	"github.com/rs/zerolog"
)

// PodServiceInterface 定义 Pod 服务的接口
type PodServiceInterface interface {
	RegisterPod(ctx context.Context, req *entity.RegisterPodRequest) (*entity.Pod, error)
	ListPods(ctx context.Context) ([]*entity.Pod, error)
	DeletePod(ctx context.Context, podID string) error
	DescribePodStoragePools(ctx context.Context, podID string, disks []entity.ComposeDisk) ([]entity.PoolUsage, error)
}

type PodAPI struct {
	podService PodServiceInterface
}

func NewPodAPI(podService PodServiceInterface) *PodAPI {
	return &PodAPI{
		podService: podService,
	}
}

func (p *PodAPI) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register-pod", ginx.Adapt5(p.RegisterPod))
	r.POST("/list-pods", ginx.Adapt5(p.ListPods))
	r.POST("/delete-pod", ginx.Adapt5(p.DeletePod))
	r.POST("/describe-pod-storage-pools", ginx.Adapt5(p.DescribePodStoragePools))
}

func (p *PodAPI) RegisterPod(ctx *gin.Context, req *entity.RegisterPodRequest) (*entity.RegisterPodResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Interface("request", req).
		Msg("RegisterPod called")

	pod, err := p.podService.RegisterPod(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to register pod")
		return nil, err
	}

	logger.Info().
		Str("podID", pod.ID).
		Msg("Pod registered successfully")

	return &entity.RegisterPodResponse{
		Pod: pod,
	}, nil
}

func (p *PodAPI) ListPods(ctx *gin.Context, _ *entity.ListPodsRequest) (*entity.ListPodsResponse, error) {
	pods, err := p.podService.ListPods(ctx)
	if err != nil {
		return nil, err
	}
	if pods == nil {
		pods = []*entity.Pod{}
	}
	return &entity.ListPodsResponse{Pods: pods}, nil
}

func (p *PodAPI) DeletePod(ctx *gin.Context, req *entity.DeletePodRequest) (*entity.DeletePodResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("podID", req.PodID).
		Msg("DeletePod called")

	if err := p.podService.DeletePod(ctx, req.PodID); err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to delete pod")
		return nil, err
	}

	logger.Info().
		Str("podID", req.PodID).
		Msg("Pod deleted successfully")

	return &entity.DeletePodResponse{
		Return: true,
	}, nil
}

// DescribePodStoragePools 存储池用量，disks 为组装请求中的磁盘
func (p *PodAPI) DescribePodStoragePools(ctx *gin.Context, req *entity.DescribePodStoragePoolsRequest) (*entity.DescribePodStoragePoolsResponse, error) {
	pools, err := p.podService.DescribePodStoragePools(ctx, req.PodID, req.Disks)
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("podID", req.PodID).
			Msg("Failed to describe pod storage pools")
		return nil, err
	}
	if pools == nil {
		pools = []entity.PoolUsage{}
	}
	return &entity.DescribePodStoragePoolsResponse{Pools: pools}, nil
}
