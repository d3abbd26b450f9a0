package repository

import (
	"context"

	"github.com/jimyag/jfm/internal/jfm/repository/model"
	"gorm.io/gorm"
)

// StorageRequestRepository 存储请求日志仓库接口
type StorageRequestRepository interface {
	Create(ctx context.Context, request *model.StorageRequest) error
	GetByID(ctx context.Context, id string) (*model.StorageRequest, error)
	List(ctx context.Context, filters map[string]interface{}, limit int) ([]*model.StorageRequest, error)
	Update(ctx context.Context, request *model.StorageRequest) error
}

type storageRequestRepository struct {
	db *gorm.DB
}

// NewStorageRequestRepository 创建存储请求日志仓库
func NewStorageRequestRepository(db *gorm.DB) StorageRequestRepository {
	return &storageRequestRepository{db: db}
}

// Create 创建请求记录
func (r *storageRequestRepository) Create(ctx context.Context, request *model.StorageRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID 根据 ID 获取请求记录
func (r *storageRequestRepository) GetByID(ctx context.Context, id string) (*model.StorageRequest, error) {
	var request model.StorageRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// List 按创建时间倒序列出请求记录，limit <= 0 表示不限制
func (r *storageRequestRepository) List(ctx context.Context, filters map[string]interface{}, limit int) ([]*model.StorageRequest, error) {
	var requests []*model.StorageRequest
	query := r.db.WithContext(ctx).Model(&model.StorageRequest{})

	if systemID, ok := filters["system_id"]; ok {
		query = query.Where("system_id = ?", systemID)
	}
	if state, ok := filters["state"]; ok {
		query = query.Where("state = ?", state)
	}
	if action, ok := filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Order("created_at DESC").Order("id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Update 更新请求记录
func (r *storageRequestRepository) Update(ctx context.Context, request *model.StorageRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
