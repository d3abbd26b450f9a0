package repository

import (
	"context"

	"github.com/jimyag/jfm/internal/jfm/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NodeSnapshotRepository 节点快照仓库接口
type NodeSnapshotRepository interface {
	Save(ctx context.Context, snapshot *model.NodeSnapshot) error
	GetBySystemID(ctx context.Context, systemID string) (*model.NodeSnapshot, error)
	List(ctx context.Context, filters map[string]interface{}) ([]*model.NodeSnapshot, error)
	Delete(ctx context.Context, systemID string) error
	DeleteExcept(ctx context.Context, systemIDs []string) (int64, error)
}

type nodeSnapshotRepository struct {
	db *gorm.DB
}

// NewNodeSnapshotRepository 创建节点快照仓库
func NewNodeSnapshotRepository(db *gorm.DB) NodeSnapshotRepository {
	return &nodeSnapshotRepository{db: db}
}

// Save 写入快照，已存在（包括软删除）的记录会被覆盖
func (r *nodeSnapshotRepository) Save(ctx context.Context, snapshot *model.NodeSnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "system_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"hostname", "node_type", "data", "updated_at", "deleted_at"}),
	}).Create(snapshot).Error
}

// GetBySystemID 根据 system id 获取快照
func (r *nodeSnapshotRepository) GetBySystemID(ctx context.Context, systemID string) (*model.NodeSnapshot, error) {
	var snapshot model.NodeSnapshot
	if err := r.db.WithContext(ctx).Where("system_id = ?", systemID).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List 按写入时间列出快照
func (r *nodeSnapshotRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.NodeSnapshot, error) {
	var snapshots []*model.NodeSnapshot
	query := r.db.WithContext(ctx).Model(&model.NodeSnapshot{})

	if nodeType, ok := filters["node_type"]; ok {
		query = query.Where("node_type = ?", nodeType)
	}

	if err := query.Order("created_at ASC").Order("system_id ASC").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Delete 软删除快照
func (r *nodeSnapshotRepository) Delete(ctx context.Context, systemID string) error {
	return r.db.WithContext(ctx).Delete(&model.NodeSnapshot{}, "system_id = ?", systemID).Error
}

// DeleteExcept 软删除不在 systemIDs 中的快照，用于全量同步后清理已消失的节点
func (r *nodeSnapshotRepository) DeleteExcept(ctx context.Context, systemIDs []string) (int64, error) {
	query := r.db.WithContext(ctx)
	if len(systemIDs) > 0 {
		query = query.Where("system_id NOT IN ?", systemIDs)
	} else {
		query = query.Where("1 = 1")
	}
	result := query.Delete(&model.NodeSnapshot{})
	return result.RowsAffected, result.Error
}
