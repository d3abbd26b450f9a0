package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/jimyag/jfm/internal/jfm/action"
	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/repository"
	"github.com/jimyag/jfm/internal/jfm/storage"
	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/rs/zerolog"
)

// bcache 缓存模式
var cacheModes = []string{"writeback", "writethrough", "writearound"}

const defaultCacheMode = "writeback"

// StorageService 节点存储服务
// 所有修改操作都会基于当前记录重新检查设备资格，然后派发到后端
type StorageService struct {
	nodes       *NodeService
	dispatcher  *Dispatcher
	requestRepo repository.StorageRequestRepository
}

// NewStorageService 创建存储服务
func NewStorageService(nodes *NodeService, dispatcher *Dispatcher, repo *repository.Repository) *StorageService {
	return &StorageService{
		nodes:       nodes,
		dispatcher:  dispatcher,
		requestRepo: repository.NewStorageRequestRepository(repo.DB()),
	}
}

// BulkActionsResult 批量操作栏
type BulkActionsResult struct {
	Visible  bool                 `json:"visible"`
	Selected []entity.DeviceRef   `json:"selected"` // 校正后的选中项
	Buttons  []storage.BulkButton `json:"buttons"`
	// RaidOptions 创建 RAID 可用时，当前选择能组成的级别及容量
	RaidOptions []RaidOption `json:"raid_options,omitempty"`
}

// RaidOption 可选的 RAID 级别
type RaidOption struct {
	Level entity.DiskType `json:"level"`
	Label string          `json:"label"`
	Size  int64           `json:"size"`
}

// DescribeAvailableStorage 构建可用存储表
func (s *StorageService) DescribeAvailableStorage(ctx context.Context, systemID string, selected []entity.DeviceRef) (*storage.Table, error) {
	node, err := s.nodes.DescribeNode(ctx, systemID)
	if err != nil {
		return nil, err
	}
	table := storage.BuildTable(node, selected)
	table.Requests = s.dispatcher.RequestStatuses(node.SystemID)
	return table, nil
}

// ResetStorageRequestStatus 清除某个存储操作上一次的请求状态
func (s *StorageService) ResetStorageRequestStatus(ctx context.Context, systemID, name string) error {
	if !slices.Contains(action.Mutations, action.Name(name)) {
		return invalidParameter("unknown storage action %q", name)
	}
	if _, err := s.nodes.DescribeNode(ctx, systemID); err != nil {
		return err
	}
	s.dispatcher.ResetRequestStatus(systemID, action.Name(name))
	return nil
}

// DescribeBulkActions 计算批量操作按钮，选中项先按当前记录校正
func (s *StorageService) DescribeBulkActions(ctx context.Context, systemID string, selected []entity.DeviceRef) (*BulkActionsResult, error) {
	node, err := s.nodes.DescribeNode(ctx, systemID)
	if err != nil {
		return nil, err
	}

	reconciled := storage.ReconcileSelection(node.Disks, selected)
	result := &BulkActionsResult{
		Visible:  storage.BulkActionsVisible(node),
		Selected: reconciled,
	}
	if !result.Visible {
		return result, nil
	}

	devs := storage.ResolveSelection(node.Disks, reconciled)
	result.Buttons = storage.BulkActions(node, devs)
	if storage.BulkActionAllowed(node, devs, storage.BulkActionCreateRaid) {
		for _, mode := range storage.AvailableRaidModes(len(devs)) {
			result.RaidOptions = append(result.RaidOptions, RaidOption{
				Level: mode.Level,
				Label: mode.Label,
				Size:  storage.RaidSize(mode, devs),
			})
		}
	}
	return result, nil
}

// SelectAllStorage 全部选中时清空选择，否则选中全部可用设备
func (s *StorageService) SelectAllStorage(ctx context.Context, systemID string, selected []entity.DeviceRef) ([]entity.DeviceRef, error) {
	node, err := s.nodes.DescribeNode(ctx, systemID)
	if err != nil {
		return nil, err
	}
	return storage.ToggleAll(node.Disks, selected), nil
}

// NextStorageName 新设备的默认名称
func (s *StorageService) NextStorageName(ctx context.Context, systemID string, prefix storage.NamePrefix) (string, error) {
	if err := prefix.IsValid(); err != nil {
		return "", apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
	}
	node, err := s.nodes.DescribeNode(ctx, systemID)
	if err != nil {
		return "", err
	}
	return storage.NextStorageName(node.Disks, prefix), nil
}

// CreatePartition 在磁盘上创建分区
func (s *StorageService) CreatePartition(ctx context.Context, req *entity.CreatePartitionRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	disk, err := findDisk(node, req.DiskID)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, disk, storage.ActionCreatePartition); err != nil {
		return nil, err
	}

	size := req.Size
	if size == 0 {
		size = disk.AvailableSize
	}
	if size < entity.MinPartitionSize {
		return nil, invalidParameter("partition size must be at least %s", storage.FormatSize(entity.MinPartitionSize))
	}
	if size > disk.AvailableSize {
		return nil, invalidParameter("partition size %s exceeds available %s", storage.FormatSize(size), storage.FormatSize(disk.AvailableSize))
	}

	return s.dispatch(ctx, action.CreatePartition(action.CreatePartitionParams{
		SystemID:      node.SystemID,
		BlockID:       disk.ID,
		PartitionSize: size,
		FSType:        req.FSType,
		MountPoint:    req.MountPoint,
		MountOptions:  req.MountOptions,
	}))
}

// CreateVolumeGroup 用选中的设备创建卷组
func (s *StorageService) CreateVolumeGroup(ctx context.Context, req *entity.CreateVolumeGroupRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	devs, err := resolveDevices(node, req.Devices)
	if err != nil {
		return nil, err
	}
	if err := requireBulkAction(node, devs, storage.BulkActionCreateVolumeGroup); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = storage.NextStorageName(node.Disks, storage.NamePrefixVolume)
	}
	diskIDs, partitionIDs := storage.SplitDiskPartitionIDs(devs)
	return s.dispatch(ctx, action.CreateVolumeGroup(action.CreateVolumeGroupParams{
		SystemID:     node.SystemID,
		Name:         name,
		BlockDevices: diskIDs,
		Partitions:   partitionIDs,
	}))
}

// CreateRaid 用选中的设备创建 RAID
func (s *StorageService) CreateRaid(ctx context.Context, req *entity.CreateRaidRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}

	mode, ok := storage.GetRaidMode(req.Level)
	if !ok {
		return nil, invalidParameter("unsupported RAID level %q", req.Level)
	}

	members, err := resolveDevices(node, req.Devices)
	if err != nil {
		return nil, err
	}
	var spares []entity.StorageDevice
	if len(req.Spares) > 0 {
		if !mode.AllowsSpares {
			return nil, invalidParameter("%s does not support spare devices", mode.Label)
		}
		if spares, err = resolveDevices(node, req.Spares); err != nil {
			return nil, err
		}
		for _, spare := range req.Spares {
			if slices.Contains(req.Devices, spare) {
				return nil, invalidParameter("%s %d is both an active and a spare device", spare.Type, spare.ID)
			}
		}
	}
	if len(members) < mode.MinDevices {
		return nil, invalidParameter("%s requires at least %d active devices", mode.Label, mode.MinDevices)
	}
	if err := requireBulkAction(node, append(slices.Clone(members), spares...), storage.BulkActionCreateRaid); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = storage.NextStorageName(node.Disks, storage.NamePrefixRaid)
	}
	diskIDs, partitionIDs := storage.SplitDiskPartitionIDs(members)
	spareDiskIDs, sparePartitionIDs := storage.SplitDiskPartitionIDs(spares)
	return s.dispatch(ctx, action.CreateRaid(action.CreateRaidParams{
		SystemID:        node.SystemID,
		Name:            name,
		Level:           string(mode.Level),
		BlockDevices:    diskIDs,
		Partitions:      partitionIDs,
		SpareDevices:    spareDiskIDs,
		SparePartitions: sparePartitionIDs,
		FSType:          req.FSType,
		MountPoint:      req.MountPoint,
		MountOptions:    req.MountOptions,
	}))
}

// CreateCacheSet 用磁盘或分区创建缓存集
func (s *StorageService) CreateCacheSet(ctx context.Context, req *entity.CreateCacheSetRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	dev, err := findDevice(node, req.Device)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, dev, storage.ActionCreateCacheSet); err != nil {
		return nil, err
	}

	params := action.CreateCacheSetParams{SystemID: node.SystemID}
	params.BlockID, params.PartitionID = deviceIDs(dev)
	return s.dispatch(ctx, action.CreateCacheSet(params))
}

// CreateBcache 用磁盘或分区作为后备设备创建 bcache
func (s *StorageService) CreateBcache(ctx context.Context, req *entity.CreateBcacheRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	dev, err := findDevice(node, req.Device)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, dev, storage.ActionCreateBcache); err != nil {
		return nil, err
	}

	cacheSet := storage.GetDiskByID(node.Disks, req.CacheSetID)
	if cacheSet == nil || !storage.IsCacheSet(cacheSet) {
		return nil, apierror.WrapError(apierror.ErrStorageDeviceNotFound, fmt.Sprintf("cache set %d not found", req.CacheSetID), nil)
	}

	cacheMode := req.CacheMode
	if cacheMode == "" {
		cacheMode = defaultCacheMode
	}
	if !slices.Contains(cacheModes, cacheMode) {
		return nil, invalidParameter("unsupported cache mode %q", cacheMode)
	}

	name := req.Name
	if name == "" {
		name = storage.NextStorageName(node.Disks, storage.NamePrefixBcache)
	}

	params := action.CreateBcacheParams{
		SystemID:     node.SystemID,
		Name:         name,
		CacheSet:     cacheSet.ID,
		CacheMode:    cacheMode,
		FSType:       req.FSType,
		MountPoint:   req.MountPoint,
		MountOptions: req.MountOptions,
	}
	params.BlockID, params.PartitionID = deviceIDs(dev)
	return s.dispatch(ctx, action.CreateBcache(params))
}

// CreateLogicalVolume 在卷组上创建逻辑卷
func (s *StorageService) CreateLogicalVolume(ctx context.Context, req *entity.CreateLogicalVolumeRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	vg, err := findDisk(node, req.VolumeGroupID)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, vg, storage.ActionCreateLogicalVolume); err != nil {
		return nil, err
	}

	size := req.Size
	if size == 0 {
		size = vg.AvailableSize
	}
	if size <= 0 || size > vg.AvailableSize {
		return nil, invalidParameter("logical volume size must be between 1 B and %s", storage.FormatSize(vg.AvailableSize))
	}

	return s.dispatch(ctx, action.CreateLogicalVolume(action.CreateLogicalVolumeParams{
		SystemID:      node.SystemID,
		VolumeGroupID: vg.ID,
		Name:          req.Name,
		Size:          size,
		FSType:        req.FSType,
		MountPoint:    req.MountPoint,
		MountOptions:  req.MountOptions,
	}))
}

// CreateDatastore 用选中的设备创建 VMFS 数据存储
func (s *StorageService) CreateDatastore(ctx context.Context, req *entity.CreateDatastoreRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	devs, err := resolveDevices(node, req.Devices)
	if err != nil {
		return nil, err
	}
	if err := requireBulkAction(node, devs, storage.BulkActionCreateDatastore); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = storage.NextStorageName(node.Disks, storage.NamePrefixDatastore)
	}
	diskIDs, partitionIDs := storage.SplitDiskPartitionIDs(devs)
	return s.dispatch(ctx, action.CreateVmfsDatastore(action.CreateVmfsDatastoreParams{
		SystemID:     node.SystemID,
		Name:         name,
		BlockDevices: diskIDs,
		Partitions:   partitionIDs,
	}))
}

// UpdateDatastore 向已有数据存储添加设备
func (s *StorageService) UpdateDatastore(ctx context.Context, req *entity.UpdateDatastoreRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	datastore := storage.GetDiskByID(node.Disks, req.DatastoreID)
	if datastore == nil || !storage.IsDatastore(datastore.Filesystem) {
		return nil, apierror.WrapError(apierror.ErrStorageDeviceNotFound, fmt.Sprintf("datastore %d not found", req.DatastoreID), nil)
	}
	devs, err := resolveDevices(node, req.Devices)
	if err != nil {
		return nil, err
	}
	if err := requireBulkAction(node, devs, storage.BulkActionUpdateDatastore); err != nil {
		return nil, err
	}

	diskIDs, partitionIDs := storage.SplitDiskPartitionIDs(devs)
	return s.dispatch(ctx, action.UpdateVmfsDatastore(action.UpdateVmfsDatastoreParams{
		SystemID:        node.SystemID,
		VmfsDatastoreID: datastore.ID,
		AddBlockDevices: diskIDs,
		AddPartitions:   partitionIDs,
	}))
}

// SetBootDisk 设置启动盘
func (s *StorageService) SetBootDisk(ctx context.Context, req *entity.SetBootDiskRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	disk, err := findDisk(node, req.DiskID)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, disk, storage.ActionSetBootDisk); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, action.SetBootDisk(action.SetBootDiskParams{SystemID: node.SystemID, BlockID: disk.ID}))
}

// UpdateDisk 修改磁盘名称、标签与文件系统
func (s *StorageService) UpdateDisk(ctx context.Context, req *entity.UpdateDiskRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	disk, err := findDisk(node, req.DiskID)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, disk, storage.ActionEditDisk); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, action.UpdateDisk(action.UpdateDiskParams{
		SystemID:     node.SystemID,
		BlockID:      disk.ID,
		Name:         req.Name,
		Tags:         req.Tags,
		FSType:       req.FSType,
		MountPoint:   req.MountPoint,
		MountOptions: req.MountOptions,
	}))
}

// DeleteDisk 删除磁盘，缓存集使用单独的后端方法
func (s *StorageService) DeleteDisk(ctx context.Context, req *entity.DeleteDiskRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	disk, err := findDisk(node, req.DiskID)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, disk, storage.ActionDeleteDisk); err != nil {
		return nil, err
	}
	if storage.IsCacheSet(disk) {
		return s.dispatch(ctx, action.DeleteCacheSet(action.DeleteCacheSetParams{SystemID: node.SystemID, CacheSetID: disk.ID}))
	}
	return s.dispatch(ctx, action.DeleteDisk(action.DeleteDiskParams{SystemID: node.SystemID, BlockID: disk.ID}))
}

// DeletePartition 删除分区
func (s *StorageService) DeletePartition(ctx context.Context, req *entity.DeletePartitionRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	partition, err := findDevice(node, entity.DeviceRef{ID: req.PartitionID, Type: entity.DiskTypePartition})
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, partition, storage.ActionDeletePartition); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, action.DeletePartition(action.DeletePartitionParams{SystemID: node.SystemID, PartitionID: req.PartitionID}))
}

// DeleteVolumeGroup 删除卷组
func (s *StorageService) DeleteVolumeGroup(ctx context.Context, req *entity.DeleteVolumeGroupRequest) (*entity.StorageRequest, error) {
	node, err := s.editableNode(ctx, req.SystemID)
	if err != nil {
		return nil, err
	}
	vg, err := findDisk(node, req.VolumeGroupID)
	if err != nil {
		return nil, err
	}
	if err := requireAction(node, vg, storage.ActionDeleteVolumeGroup); err != nil {
		return nil, err
	}
	return s.dispatch(ctx, action.DeleteVolumeGroup(action.DeleteVolumeGroupParams{SystemID: node.SystemID, VolumeGroupID: vg.ID}))
}

// DescribeStorageRequests 查询请求日志
func (s *StorageService) DescribeStorageRequests(ctx context.Context, req *entity.DescribeStorageRequestsRequest) ([]*entity.StorageRequest, error) {
	if req.RequestID != "" {
		m, err := s.requestRepo.GetByID(ctx, req.RequestID)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrRequestNotFound, fmt.Sprintf("request %s not found", req.RequestID), err)
		}
		e, err := storageRequestModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, err.Error(), err)
		}
		return []*entity.StorageRequest{e}, nil
	}

	filters := make(map[string]interface{})
	if req.SystemID != "" {
		filters["system_id"] = req.SystemID
	}
	if req.State != "" {
		filters["state"] = string(req.State)
	}

	models, err := s.requestRepo.List(ctx, filters, req.Limit)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "list storage requests", err)
	}
	requests := make([]*entity.StorageRequest, 0, len(models))
	for _, m := range models {
		e, err := storageRequestModelToEntity(m)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("requestID", m.ID).Msg("Skipping corrupt storage request")
			continue
		}
		requests = append(requests, e)
	}
	return requests, nil
}

func (s *StorageService) dispatch(ctx context.Context, env action.Envelope) (*entity.StorageRequest, error) {
	return s.dispatcher.Dispatch(ctx, env)
}

// editableNode 返回允许修改存储的机器
func (s *StorageService) editableNode(ctx context.Context, systemID string) (*entity.Node, error) {
	node, err := s.nodes.DescribeNode(ctx, systemID)
	if err != nil {
		return nil, err
	}
	if !node.IsMachine() || !storage.CanEditStorage(node) {
		return nil, apierror.WrapError(apierror.ErrStorageNotEditable,
			fmt.Sprintf("storage of %s cannot be edited in its current state (%s)", node.Hostname, node.Status), nil)
	}
	if !node.HasDetails() {
		return nil, apierror.WrapError(apierror.ErrBackendUnavailable, fmt.Sprintf("storage details of %s are not loaded", node.Hostname), nil)
	}
	return node, nil
}

func findDisk(node *entity.Node, id int64) (*entity.Disk, error) {
	disk := storage.GetDiskByID(node.Disks, id)
	if disk == nil {
		return nil, apierror.WrapError(apierror.ErrStorageDeviceNotFound, fmt.Sprintf("disk %d not found on %s", id, node.SystemID), nil)
	}
	return disk, nil
}

func findDevice(node *entity.Node, ref entity.DeviceRef) (entity.StorageDevice, error) {
	dev := storage.GetDevice(node.Disks, ref)
	if dev == nil {
		return nil, apierror.WrapError(apierror.ErrStorageDeviceNotFound, fmt.Sprintf("%s %d not found on %s", ref.Type, ref.ID, node.SystemID), nil)
	}
	return dev, nil
}

// resolveDevices 解析设备引用，重复引用只保留一个
func resolveDevices(node *entity.Node, refs []entity.DeviceRef) ([]entity.StorageDevice, error) {
	if len(refs) == 0 {
		return nil, invalidParameter("at least one storage device must be selected")
	}
	devs := make([]entity.StorageDevice, 0, len(refs))
	seen := make(map[entity.DeviceRef]struct{}, len(refs))
	for _, ref := range refs {
		dev, err := findDevice(node, ref)
		if err != nil {
			return nil, err
		}
		key := storage.RefOf(dev)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		devs = append(devs, dev)
	}
	return devs, nil
}

// requireAction 设备必须出现在可用存储表中，且该行菜单包含此操作
// 缓存集不在表中，只能通过删除入口处理
func requireAction(node *entity.Node, dev entity.StorageDevice, act storage.DeviceAction) error {
	if !storage.IsAvailable(dev) && !isCacheSetRemoval(dev, act) {
		return unavailableDevice(dev)
	}
	if storage.ActionAllowed(node, dev, act) {
		return nil
	}
	return apierror.WrapError(apierror.ErrStorageActionNotAllowed,
		fmt.Sprintf("%s is not allowed on %s %s", act, storage.FormatType(dev, true), dev.DeviceName()), nil)
}

// requireBulkAction 选中的设备都必须是可用存储表中的行
func requireBulkAction(node *entity.Node, devs []entity.StorageDevice, act storage.BulkAction) error {
	for _, dev := range devs {
		if !storage.IsAvailable(dev) {
			return unavailableDevice(dev)
		}
	}
	if storage.BulkActionAllowed(node, devs, act) {
		return nil
	}
	return apierror.WrapError(apierror.ErrStorageActionNotAllowed,
		fmt.Sprintf("%s is not allowed for the selected storage devices", act), nil)
}

func isCacheSetRemoval(dev entity.StorageDevice, act storage.DeviceAction) bool {
	disk, ok := dev.(*entity.Disk)
	return ok && act == storage.ActionDeleteDisk && storage.IsCacheSet(disk)
}

func unavailableDevice(dev entity.StorageDevice) error {
	return apierror.WrapError(apierror.ErrStorageActionNotAllowed,
		fmt.Sprintf("%s %s is not available for new storage configuration", storage.FormatType(dev, true), dev.DeviceName()), nil)
}

// deviceIDs 磁盘返回 block id，分区返回 partition id
func deviceIDs(dev entity.StorageDevice) (blockID, partitionID *int64) {
	id := dev.DeviceID()
	if storage.IsDisk(dev) {
		return &id, nil
	}
	return nil, &id
}

func invalidParameter(format string, args ...any) error {
	return apierror.WrapError(apierror.ErrInvalidParameter, fmt.Sprintf(format, args...), nil)
}
