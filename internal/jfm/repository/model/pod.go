package model

import (
	"time"

	"gorm.io/gorm"
)

// Pod KVM 主机表
type Pod struct {
	ID        string         `gorm:"primaryKey;type:text;column:id" json:"id"` // pod-{id}
	Name      string         `gorm:"type:text;not null;column:name" json:"name"`
	URI       string         `gorm:"type:text;not null;column:uri" json:"uri"` // libvirt 连接 URI
	CreatedAt time.Time      `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"type:datetime;index:idx_pods_deleted_at;column:deleted_at" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Pod) TableName() string {
	return "pods"
}
