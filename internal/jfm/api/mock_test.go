package api

import (
	"context"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/service"
	"github.com/jimyag/jfm/internal/jfm/storage"
	"github.com/stretchr/testify/mock"
)

// MockNodeService 是 NodeService 的 mock 实现
type MockNodeService struct {
	mock.Mock
}

func (m *MockNodeService) ListNodes(ctx context.Context, req *entity.ListNodesRequest) ([]*entity.Node, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Node), args.Error(1)
}

func (m *MockNodeService) DescribeNode(ctx context.Context, systemID string) (*entity.Node, error) {
	args := m.Called(ctx, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Node), args.Error(1)
}

func (m *MockNodeService) SyncNodes(ctx context.Context) (*entity.SyncNodesResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncNodesResponse), args.Error(1)
}

// MockStorageService 是 StorageService 的 mock 实现
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) DescribeAvailableStorage(ctx context.Context, systemID string, selected []entity.DeviceRef) (*storage.Table, error) {
	args := m.Called(ctx, systemID, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Table), args.Error(1)
}

func (m *MockStorageService) DescribeBulkActions(ctx context.Context, systemID string, selected []entity.DeviceRef) (*service.BulkActionsResult, error) {
	args := m.Called(ctx, systemID, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkActionsResult), args.Error(1)
}

func (m *MockStorageService) SelectAllStorage(ctx context.Context, systemID string, selected []entity.DeviceRef) ([]entity.DeviceRef, error) {
	args := m.Called(ctx, systemID, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DeviceRef), args.Error(1)
}

func (m *MockStorageService) NextStorageName(ctx context.Context, systemID string, prefix storage.NamePrefix) (string, error) {
	args := m.Called(ctx, systemID, prefix)
	return args.String(0), args.Error(1)
}

// called 存储修改方法的公共实现，显式传入方法名
func (m *MockStorageService) called(ctx context.Context, method string, req any) (*entity.StorageRequest, error) {
	args := m.MethodCalled(method, ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StorageRequest), args.Error(1)
}

func (m *MockStorageService) CreatePartition(ctx context.Context, req *entity.CreatePartitionRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "CreatePartition", req)
}

func (m *MockStorageService) CreateVolumeGroup(ctx context.Context, req *entity.CreateVolumeGroupRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "CreateVolumeGroup", req)
}

func (m *MockStorageService) CreateRaid(ctx context.Context, req *entity.CreateRaidRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "CreateRaid", req)
}

func (m *MockStorageService) CreateCacheSet(ctx context.Context, req *entity.CreateCacheSetRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "CreateCacheSet", req)
}

func (m *MockStorageService) CreateBcache(ctx context.Context, req *entity.CreateBcacheRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "CreateBcache", req)
}

func (m *MockStorageService) CreateLogicalVolume(ctx context.Context, req *entity.CreateLogicalVolumeRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "CreateLogicalVolume", req)
}

func (m *MockStorageService) CreateDatastore(ctx context.Context, req *entity.CreateDatastoreRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "CreateDatastore", req)
}

func (m *MockStorageService) UpdateDatastore(ctx context.Context, req *entity.UpdateDatastoreRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "UpdateDatastore", req)
}

func (m *MockStorageService) SetBootDisk(ctx context.Context, req *entity.SetBootDiskRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "SetBootDisk", req)
}

func (m *MockStorageService) UpdateDisk(ctx context.Context, req *entity.UpdateDiskRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "UpdateDisk", req)
}

func (m *MockStorageService) DeleteDisk(ctx context.Context, req *entity.DeleteDiskRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "DeleteDisk", req)
}

func (m *MockStorageService) DeletePartition(ctx context.Context, req *entity.DeletePartitionRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "DeletePartition", req)
}

func (m *MockStorageService) DeleteVolumeGroup(ctx context.Context, req *entity.DeleteVolumeGroupRequest) (*entity.StorageRequest, error) {
	return m.called(ctx, "DeleteVolumeGroup", req)
}

func (m *MockStorageService) DescribeStorageRequests(ctx context.Context, req *entity.DescribeStorageRequestsRequest) ([]*entity.StorageRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.StorageRequest), args.Error(1)
}

func (m *MockStorageService) ResetStorageRequestStatus(ctx context.Context, systemID, action string) error {
	args := m.Called(ctx, systemID, action)
	return args.Error(0)
}

// MockPodService 是 PodService 的 mock 实现
type MockPodService struct {
	mock.Mock
}

func (m *MockPodService) RegisterPod(ctx context.Context, req *entity.RegisterPodRequest) (*entity.Pod, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Pod), args.Error(1)
}

func (m *MockPodService) ListPods(ctx context.Context) ([]*entity.Pod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Pod), args.Error(1)
}

func (m *MockPodService) DeletePod(ctx context.Context, podID string) error {
	args := m.Called(ctx, podID)
	return args.Error(0)
}

func (m *MockPodService) DescribePodStoragePools(ctx context.Context, podID string, disks []entity.ComposeDisk) ([]entity.PoolUsage, error) {
	args := m.Called(ctx, podID, disks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PoolUsage), args.Error(1)
}

var (
	_ NodeServiceInterface    = (*MockNodeService)(nil)
	_ StorageServiceInterface = (*MockStorageService)(nil)
	_ PodServiceInterface     = (*MockPodService)(nil)
)
