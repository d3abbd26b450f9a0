package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/service"
	"github.com/jimyag/jfm/internal/jfm/storage"
	"github.com/jimyag/jfm/pkg/ginx"
	"github.com/rs/zerolog"
)

// StorageServiceInterface 定义存储服务的接口
type StorageServiceInterface interface {
	DescribeAvailableStorage(ctx context.Context, systemID string, selected []entity.DeviceRef) (*storage.Table, error)
	DescribeBulkActions(ctx context.Context, systemID string, selected []entity.DeviceRef) (*service.BulkActionsResult, error)
	SelectAllStorage(ctx context.Context, systemID string, selected []entity.DeviceRef) ([]entity.DeviceRef, error)
	NextStorageName(ctx context.Context, systemID string, prefix storage.NamePrefix) (string, error)

	CreatePartition(ctx context.Context, req *entity.CreatePartitionRequest) (*entity.StorageRequest, error)
	CreateVolumeGroup(ctx context.Context, req *entity.CreateVolumeGroupRequest) (*entity.StorageRequest, error)
	CreateRaid(ctx context.Context, req *entity.CreateRaidRequest) (*entity.StorageRequest, error)
	CreateCacheSet(ctx context.Context, req *entity.CreateCacheSetRequest) (*entity.StorageRequest, error)
	CreateBcache(ctx context.Context, req *entity.CreateBcacheRequest) (*entity.StorageRequest, error)
	CreateLogicalVolume(ctx context.Context, req *entity.CreateLogicalVolumeRequest) (*entity.StorageRequest, error)
	CreateDatastore(ctx context.Context, req *entity.CreateDatastoreRequest) (*entity.StorageRequest, error)
	UpdateDatastore(ctx context.Context, req *entity.UpdateDatastoreRequest) (*entity.StorageRequest, error)
	SetBootDisk(ctx context.Context, req *entity.SetBootDiskRequest) (*entity.StorageRequest, error)
	UpdateDisk(ctx context.Context, req *entity.UpdateDiskRequest) (*entity.StorageRequest, error)
	DeleteDisk(ctx context.Context, req *entity.DeleteDiskRequest) (*entity.StorageRequest, error)
	DeletePartition(ctx context.Context, req *entity.DeletePartitionRequest) (*entity.StorageRequest, error)
	DeleteVolumeGroup(ctx context.Context, req *entity.DeleteVolumeGroupRequest) (*entity.StorageRequest, error)

	DescribeStorageRequests(ctx context.Context, req *entity.DescribeStorageRequestsRequest) ([]*entity.StorageRequest, error)
	ResetStorageRequestStatus(ctx context.Context, systemID, action string) error
}

// StorageAPI 节点存储 API
type StorageAPI struct {
	storageService StorageServiceInterface
}

// NewStorageAPI 创建存储 API
func NewStorageAPI(storageService StorageServiceInterface) *StorageAPI {
	return &StorageAPI{
		storageService: storageService,
	}
}

// RegisterRoutes 注册路由
func (a *StorageAPI) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/describe-node-storage", ginx.Adapt5(a.DescribeNodeStorage))
	r.POST("/describe-storage-bulk-actions", ginx.Adapt5(a.DescribeStorageBulkActions))
	r.POST("/select-all-storage", ginx.Adapt5(a.SelectAllStorage))
	r.POST("/describe-next-storage-name", ginx.Adapt5(a.DescribeNextStorageName))

	r.POST("/create-partition", ginx.Adapt5(a.CreatePartition))
	r.POST("/create-volume-group", ginx.Adapt5(a.CreateVolumeGroup))
	r.POST("/create-raid", ginx.Adapt5(a.CreateRaid))
	r.POST("/create-cache-set", ginx.Adapt5(a.CreateCacheSet))
	r.POST("/create-bcache", ginx.Adapt5(a.CreateBcache))
	r.POST("/create-logical-volume", ginx.Adapt5(a.CreateLogicalVolume))
	r.POST("/create-datastore", ginx.Adapt5(a.CreateDatastore))
	r.POST("/update-datastore", ginx.Adapt5(a.UpdateDatastore))
	r.POST("/set-boot-disk", ginx.Adapt5(a.SetBootDisk))
	r.POST("/update-disk", ginx.Adapt5(a.UpdateDisk))
	r.POST("/delete-disk", ginx.Adapt5(a.DeleteDisk))
	r.POST("/delete-partition", ginx.Adapt5(a.DeletePartition))
	r.POST("/delete-volume-group", ginx.Adapt5(a.DeleteVolumeGroup))

	r.POST("/describe-storage-requests", ginx.Adapt5(a.DescribeStorageRequests))
	r.POST("/reset-storage-request-status", ginx.Adapt5(a.ResetStorageRequestStatus))
}

// DescribeNodeStorage 可用存储表，包含每一行的操作菜单
func (a *StorageAPI) DescribeNodeStorage(ctx *gin.Context, req *entity.DescribeNodeStorageRequest) (*storage.Table, error) {
	return a.storageService.DescribeAvailableStorage(ctx, req.SystemID, req.Selected)
}

// DescribeStorageBulkActions 批量操作栏
func (a *StorageAPI) DescribeStorageBulkActions(ctx *gin.Context, req *entity.DescribeStorageBulkActionsRequest) (*service.BulkActionsResult, error) {
	return a.storageService.DescribeBulkActions(ctx, req.SystemID, req.Selected)
}

// SelectAllStorage 全选或取消全选
func (a *StorageAPI) SelectAllStorage(ctx *gin.Context, req *entity.SelectAllStorageRequest) (*entity.SelectAllStorageResponse, error) {
	selected, err := a.storageService.SelectAllStorage(ctx, req.SystemID, req.Selected)
	if err != nil {
		return nil, err
	}
	if selected == nil {
		selected = []entity.DeviceRef{}
	}
	return &entity.SelectAllStorageResponse{Selected: selected}, nil
}

// DescribeNextStorageName 新设备的默认名称
func (a *StorageAPI) DescribeNextStorageName(ctx *gin.Context, req *entity.DescribeNextStorageNameRequest) (*entity.DescribeNextStorageNameResponse, error) {
	name, err := a.storageService.NextStorageName(ctx, req.SystemID, storage.NamePrefix(req.Prefix))
	if err != nil {
		return nil, err
	}
	return &entity.DescribeNextStorageNameResponse{Name: name}, nil
}

func (a *StorageAPI) CreatePartition(ctx *gin.Context, req *entity.CreatePartitionRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "CreatePartition", req, a.storageService.CreatePartition)
}

func (a *StorageAPI) CreateVolumeGroup(ctx *gin.Context, req *entity.CreateVolumeGroupRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "CreateVolumeGroup", req, a.storageService.CreateVolumeGroup)
}

func (a *StorageAPI) CreateRaid(ctx *gin.Context, req *entity.CreateRaidRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "CreateRaid", req, a.storageService.CreateRaid)
}

func (a *StorageAPI) CreateCacheSet(ctx *gin.Context, req *entity.CreateCacheSetRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "CreateCacheSet", req, a.storageService.CreateCacheSet)
}

func (a *StorageAPI) CreateBcache(ctx *gin.Context, req *entity.CreateBcacheRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "CreateBcache", req, a.storageService.CreateBcache)
}

func (a *StorageAPI) CreateLogicalVolume(ctx *gin.Context, req *entity.CreateLogicalVolumeRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "CreateLogicalVolume", req, a.storageService.CreateLogicalVolume)
}

func (a *StorageAPI) CreateDatastore(ctx *gin.Context, req *entity.CreateDatastoreRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "CreateDatastore", req, a.storageService.CreateDatastore)
}

func (a *StorageAPI) UpdateDatastore(ctx *gin.Context, req *entity.UpdateDatastoreRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "UpdateDatastore", req, a.storageService.UpdateDatastore)
}

func (a *StorageAPI) SetBootDisk(ctx *gin.Context, req *entity.SetBootDiskRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "SetBootDisk", req, a.storageService.SetBootDisk)
}

func (a *StorageAPI) UpdateDisk(ctx *gin.Context, req *entity.UpdateDiskRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "UpdateDisk", req, a.storageService.UpdateDisk)
}

func (a *StorageAPI) DeleteDisk(ctx *gin.Context, req *entity.DeleteDiskRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "DeleteDisk", req, a.storageService.DeleteDisk)
}

func (a *StorageAPI) DeletePartition(ctx *gin.Context, req *entity.DeletePartitionRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "DeletePartition", req, a.storageService.DeletePartition)
}

func (a *StorageAPI) DeleteVolumeGroup(ctx *gin.Context, req *entity.DeleteVolumeGroupRequest) (*entity.StorageMutationResponse, error) {
	return mutate(ctx, "DeleteVolumeGroup", req, a.storageService.DeleteVolumeGroup)
}

// DescribeStorageRequests 查询请求日志
func (a *StorageAPI) DescribeStorageRequests(ctx *gin.Context, req *entity.DescribeStorageRequestsRequest) (*entity.DescribeStorageRequestsResponse, error) {
	requests, err := a.storageService.DescribeStorageRequests(ctx, req)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*entity.StorageRequest{}
	}
	return &entity.DescribeStorageRequestsResponse{Requests: requests}, nil
}

// ResetStorageRequestStatus 表单重新打开时清除上一次的错误
func (a *StorageAPI) ResetStorageRequestStatus(ctx *gin.Context, req *entity.ResetStorageRequestStatusRequest) (*entity.ResetStorageRequestStatusResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("systemID", req.SystemID).
		Str("action", req.Action).
		Msg("ResetStorageRequestStatus called")

	if err := a.storageService.ResetStorageRequestStatus(ctx, req.SystemID, req.Action); err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to reset storage request status")
		return nil, err
	}
	return &entity.ResetStorageRequestStatusResponse{Return: true}, nil
}

// mutate 统一记录存储修改请求的日志
func mutate[T any](
	ctx *gin.Context,
	operation string,
	req *T,
	fn func(context.Context, *T) (*entity.StorageRequest, error),
) (*entity.StorageMutationResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Interface("request", req).
		Msg(operation + " called")

	request, err := fn(ctx, req)
	if err != nil {
		event := logger.Error().Err(err)
		if request != nil {
			event = event.Str("requestID", request.ID)
		}
		event.Msg("Failed to " + operation)
		return nil, err
	}

	logger.Info().
		Str("requestID", request.ID).
		Str("method", request.Method).
		Msg(operation + " dispatched successfully")
	return &entity.StorageMutationResponse{Request: request}, nil
}
