package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/repository"
	"github.com/jimyag/jfm/internal/jfm/storage"
	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/jimyag/jfm/pkg/idgen"
	"github.com/jimyag/jfm/pkg/libvirt"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ManagedVolumePrefix 本系统组装机器时创建的卷名前缀，计入 allocated_tracked
const ManagedVolumePrefix = "jfm-"

// PodService KVM 主机服务
type PodService struct {
	podRepo    repository.PodRepository
	connect    libvirt.Connector
	defaultURI string
	idGen      *idgen.Generator
}

// NewPodService 创建 Pod 服务
func NewPodService(repo *repository.Repository, connect libvirt.Connector, defaultURI string) *PodService {
	return &PodService{
		podRepo:    repository.NewPodRepository(repo.DB()),
		connect:    connect,
		defaultURI: defaultURI,
		idGen:      idgen.New(),
	}
}

// RegisterPod 注册 KVM 主机，注册前会先验证 libvirt 连接
func (s *PodService) RegisterPod(ctx context.Context, req *entity.RegisterPodRequest) (*entity.Pod, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := s.podRepo.GetByName(ctx, req.Name); err == nil {
		return nil, apierror.WrapError(apierror.ErrPodAlreadyExists, fmt.Sprintf("pod %s already exists", req.Name), nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.WrapError(apierror.ErrInternalError, "lookup pod", err)
	}

	uri := req.URI
	if uri == "" {
		uri = s.defaultURI
	}

	client, err := s.connect(uri)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrBackendUnavailable, fmt.Sprintf("cannot connect to %s", uri), err)
	}
	hostname, err := client.GetHostname()
	_ = client.Close()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrBackendUnavailable, fmt.Sprintf("cannot query %s", uri), err)
	}

	podID, err := s.idGen.GeneratePodID()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "generate pod id", err)
	}

	pod := &entity.Pod{ID: podID, Name: req.Name, URI: uri}
	m, err := podEntityToModel(pod)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, err.Error(), err)
	}
	if err := s.podRepo.Create(ctx, m); err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "create pod", err)
	}

	logger.Info().
		Str("podID", podID).
		Str("uri", uri).
		Str("hostname", hostname).
		Msg("Pod registered")
	return podModelToEntity(m)
}

// ListPods 列举 Pod
func (s *PodService) ListPods(ctx context.Context) ([]*entity.Pod, error) {
	models, err := s.podRepo.List(ctx)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "list pods", err)
	}
	pods := make([]*entity.Pod, 0, len(models))
	for _, m := range models {
		pod, err := podModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, err.Error(), err)
		}
		pods = append(pods, pod)
	}
	return pods, nil
}

// DeletePod 删除 Pod
func (s *PodService) DeletePod(ctx context.Context, podID string) error {
	if _, err := s.getPod(ctx, podID); err != nil {
		return err
	}
	if err := s.podRepo.Delete(ctx, podID); err != nil {
		return apierror.WrapError(apierror.ErrInternalError, "delete pod", err)
	}
	return nil
}

// DescribePodStoragePools 读取 Pod 的存储池并计算用量
// disks 为组装请求中的磁盘，未指定位置的磁盘不计入任何池
func (s *PodService) DescribePodStoragePools(ctx context.Context, podID string, disks []entity.ComposeDisk) ([]entity.PoolUsage, error) {
	pod, err := s.getPod(ctx, podID)
	if err != nil {
		return nil, err
	}

	client, err := s.connect(pod.URI)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrBackendUnavailable, fmt.Sprintf("cannot connect to %s", pod.URI), err)
	}
	defer client.Close()

	infos, err := client.ListStoragePools()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrBackendUnavailable, "list storage pools", err)
	}

	pools := make([]entity.PodStoragePool, 0, len(infos))
	for _, info := range infos {
		volumes, err := client.ListVolumes(info.Name)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrBackendUnavailable, fmt.Sprintf("list volumes of %s", info.Name), err)
		}
		pools = append(pools, toPodStoragePool(info, volumes))
	}
	return CalculatePoolUsage(pools, disks), nil
}

func (s *PodService) getPod(ctx context.Context, podID string) (*entity.Pod, error) {
	m, err := s.podRepo.GetByID(ctx, podID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrPodNotFound, fmt.Sprintf("pod %s not found", podID), err)
		}
		return nil, apierror.WrapError(apierror.ErrInternalError, "get pod", err)
	}
	return podModelToEntity(m)
}

// toPodStoragePool 把 libvirt 池信息拆分为本系统占用与其他占用
func toPodStoragePool(info *libvirt.StoragePoolInfo, volumes []*libvirt.VolumeInfo) entity.PodStoragePool {
	var tracked uint64
	for _, vol := range volumes {
		if strings.HasPrefix(vol.Name, ManagedVolumePrefix) {
			tracked += vol.AllocationB
		}
	}
	other := uint64(0)
	if info.AllocationB > tracked {
		other = info.AllocationB - tracked
	}
	return entity.PodStoragePool{
		Name:             info.Name,
		UUID:             info.UUID,
		Path:             info.Path,
		State:            info.State,
		Total:            info.CapacityB,
		AllocatedTracked: tracked,
		AllocatedOther:   other,
	}
}

// CalculatePoolUsage 计算每个池的已分配、本次请求、剩余容量
// free = total - allocated - requested，不足时为 0；
// 池的剩余空间放不下请求中位于其他池的最大磁盘，或本身已超额时禁用
func CalculatePoolUsage(pools []entity.PodStoragePool, disks []entity.ComposeDisk) []entity.PoolUsage {
	usages := make([]entity.PoolUsage, 0, len(pools))
	for _, pool := range pools {
		allocated := pool.AllocatedTracked + pool.AllocatedOther

		var requested, largestElsewhere uint64
		for _, disk := range disks {
			if disk.Location == pool.Name {
				requested += disk.Size
			} else if disk.Size > largestElsewhere {
				largestElsewhere = disk.Size
			}
		}

		usage := entity.PoolUsage{
			Pool:      pool,
			Allocated: allocated,
			Requested: requested,
			Total:     pool.Total,
		}
		available := subtract(pool.Total, allocated)
		usage.Free = subtract(available, requested)

		switch {
		case requested > available:
			usage.Disabled = true
			usage.Warning = fmt.Sprintf("Only %s available in %s", formatBytes(available), pool.Name)
		case largestElsewhere > usage.Free:
			usage.Disabled = true
			usage.Warning = fmt.Sprintf("Only %s available in %s", formatBytes(usage.Free), pool.Name)
		}
		usages = append(usages, usage)
	}
	return usages
}

func subtract(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func formatBytes(n uint64) string {
	return storage.FormatSize(int64(n))
}
