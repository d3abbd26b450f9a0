package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/repository"
	"github.com/jimyag/jfm/internal/jfm/store"
	"github.com/stretchr/testify/require"
)

const gb = int64(1000 * 1000 * 1000)

type backendCall struct {
	Method string
	Params json.RawMessage
}

type backendHandler func(params json.RawMessage) (any, error)

// fakeBackend 按方法名返回预设结果，并记录所有调用
type fakeBackend struct {
	mu       sync.Mutex
	calls    []backendCall
	handlers map[string]backendHandler
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{handlers: make(map[string]backendHandler)}
}

func (b *fakeBackend) handle(method string, fn backendHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method] = fn
}

func (b *fakeBackend) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, ok := params.(json.RawMessage)
	if !ok {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	b.mu.Lock()
	b.calls = append(b.calls, backendCall{Method: method, Params: raw})
	fn, ok := b.handlers[method]
	b.mu.Unlock()

	if !ok {
		return json.RawMessage("{}"), nil
	}
	result, err := fn(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func (b *fakeBackend) lastCall(t *testing.T) backendCall {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.calls, "backend was never called")
	return b.calls[len(b.calls)-1]
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

// lastParams 解码最后一次调用的参数
func (b *fakeBackend) lastParams(t *testing.T) map[string]any {
	t.Helper()
	var params map[string]any
	require.NoError(t, json.Unmarshal(b.lastCall(t).Params, &params))
	return params
}

type testEnv struct {
	repo       *repository.Repository
	store      *store.Store
	backend    *fakeBackend
	dispatcher *Dispatcher
	nodes      *NodeService
	storage    *StorageService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.New(filepath.Join(t.TempDir(), "jfm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	st := store.New()
	backend := newFakeBackend()
	dispatcher := NewDispatcher(st, repo, 0)
	dispatcher.SetBackend(backend)
	nodes := NewNodeService(st, dispatcher, repo)

	return &testEnv{
		repo:       repo,
		store:      st,
		backend:    backend,
		dispatcher: dispatcher,
		nodes:      nodes,
		storage:    NewStorageService(nodes, dispatcher, repo),
	}
}

func newDisk(id int64, name string, diskType entity.DiskType) *entity.Disk {
	return &entity.Disk{
		ID:            id,
		Name:          name,
		Type:          diskType,
		Size:          100 * gb,
		AvailableSize: 100 * gb,
	}
}

func newPartition(id int64, name string) *entity.Partition {
	return &entity.Partition{ID: id, Name: name, Size: 10 * gb, Type: entity.DiskTypePartition}
}

func readyMachine(systemID string, disks ...*entity.Disk) *entity.Node {
	if disks == nil {
		disks = []*entity.Disk{}
	}
	return &entity.Node{
		SystemID:              systemID,
		Hostname:              "host-" + systemID,
		NodeType:              entity.NodeTypeMachine,
		OSystem:               "ubuntu",
		Status:                "Ready",
		StatusCode:            entity.NodeStatusReady,
		Permissions:           []string{entity.PermissionEdit},
		DetectedStorageLayout: entity.StorageLayoutFlat,
		Disks:                 disks,
	}
}

// flatMachine 包含各类设备的机器
//
//	sda   1  空闲物理盘
//	sdb   2  空闲物理盘
//	sdc   3  带一个空分区 sdc-part1(10)
//	sdd   4  已挂载的启动盘
//	cache0 5 缓存集
//	vg0   6  空卷组
func flatMachine(systemID string) *entity.Node {
	sdc := newDisk(3, "sdc", entity.DiskTypePhysical)
	sdc.AvailableSize = 90 * gb
	sdc.Partitions = []*entity.Partition{newPartition(10, "sdc-part1")}

	sdd := newDisk(4, "sdd", entity.DiskTypePhysical)
	sdd.IsBoot = true
	sdd.Filesystem = &entity.Filesystem{FSType: "ext4", IsFormatFSType: true, MountPoint: "/"}

	vg := newDisk(6, "vg0", entity.DiskTypeVolumeGroup)
	vg.AvailableSize = 50 * gb

	return readyMachine(systemID,
		newDisk(1, "sda", entity.DiskTypePhysical),
		newDisk(2, "sdb", entity.DiskTypePhysical),
		sdc,
		sdd,
		newDisk(5, "cache0", entity.DiskTypeCacheSet),
		vg,
	)
}

// vmwareMachine VMware 布局的机器，datastore1 为已有数据存储
func vmwareMachine(systemID string) *entity.Node {
	ds := newDisk(7, "datastore1", entity.DiskTypePhysical)
	ds.Filesystem = &entity.Filesystem{FSType: entity.FSTypeVMFS6, IsFormatFSType: true, MountPoint: entity.MountPointReserved}

	node := readyMachine(systemID,
		newDisk(1, "sda", entity.DiskTypePhysical),
		newDisk(2, "sdb", entity.DiskTypePhysical),
		ds,
	)
	node.DetectedStorageLayout = entity.StorageLayoutVMFS6
	return node
}

func disk(id int64) entity.DeviceRef {
	return entity.DeviceRef{ID: id, Type: entity.DiskTypePhysical}
}

func partition(id int64) entity.DeviceRef {
	return entity.DeviceRef{ID: id, Type: entity.DiskTypePartition}
}

// decodeSystemID 从 get 请求中取出 system_id
func decodeSystemID(params json.RawMessage) (string, error) {
	var p struct {
		SystemID string `json:"system_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return "", err
	}
	if p.SystemID == "" {
		return "", fmt.Errorf("missing system_id")
	}
	return p.SystemID, nil
}
