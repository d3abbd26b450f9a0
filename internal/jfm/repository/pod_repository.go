package repository

import (
	"context"

	"github.com/jimyag/jfm/internal/jfm/repository/model"
	"gorm.io/gorm"
)

// PodRepository Pod 仓库接口
type PodRepository interface {
	Create(ctx context.Context, pod *model.Pod) error
	GetByID(ctx context.Context, id string) (*model.Pod, error)
	GetByName(ctx context.Context, name string) (*model.Pod, error)
	List(ctx context.Context) ([]*model.Pod, error)
	Delete(ctx context.Context, id string) error
}

type podRepository struct {
	db *gorm.DB
}

// NewPodRepository 创建 Pod 仓库
func NewPodRepository(db *gorm.DB) PodRepository {
	return &podRepository{db: db}
}

// Create 创建 Pod
func (r *podRepository) Create(ctx context.Context, pod *model.Pod) error {
	return r.db.WithContext(ctx).Create(pod).Error
}

// GetByID 根据 ID 获取 Pod
func (r *podRepository) GetByID(ctx context.Context, id string) (*model.Pod, error) {
	var pod model.Pod
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pod).Error; err != nil {
		return nil, err
	}
	return &pod, nil
}

// GetByName 根据名称获取 Pod
func (r *podRepository) GetByName(ctx context.Context, name string) (*model.Pod, error) {
	var pod model.Pod
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&pod).Error; err != nil {
		return nil, err
	}
	return &pod, nil
}

// List 列出 Pod
func (r *podRepository) List(ctx context.Context) ([]*model.Pod, error) {
	var pods []*model.Pod
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&pods).Error; err != nil {
		return nil, err
	}
	return pods, nil
}

// Delete 软删除 Pod
func (r *podRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Pod{}, "id = ?", id).Error
}
