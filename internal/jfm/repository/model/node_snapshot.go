package model

import (
	"time"

	"gorm.io/gorm"
)

// NodeSnapshot 节点快照表，服务重启后在首次同步前用于恢复节点列表
type NodeSnapshot struct {
	SystemID  string         `gorm:"primaryKey;type:text;column:system_id" json:"system_id"`
	Hostname  string         `gorm:"type:text;not null;column:hostname" json:"hostname"`
	NodeType  int            `gorm:"type:integer;not null;index:idx_node_snapshots_node_type;column:node_type" json:"node_type"`
	Data      string         `gorm:"type:text;not null;column:data" json:"data"` // JSON 编码的完整节点
	CreatedAt time.Time      `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"type:datetime;index:idx_node_snapshots_deleted_at;column:deleted_at" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (NodeSnapshot) TableName() string {
	return "node_snapshots"
}
