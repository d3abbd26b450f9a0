package model

import "time"

// StorageRequest 存储操作请求日志表
type StorageRequest struct {
	ID        string    `gorm:"primaryKey;type:text;column:id" json:"id"` // req-{id}
	SystemID  string    `gorm:"type:text;not null;index:idx_storage_requests_system_id;column:system_id" json:"system_id"`
	Action    string    `gorm:"type:text;not null;column:action" json:"action"`
	Method    string    `gorm:"type:text;not null;column:method" json:"method"` // machine.create_partition
	Params    string    `gorm:"type:text;column:params" json:"params"`
	State     string    `gorm:"type:text;not null;index:idx_storage_requests_state;column:state" json:"state"` // pending, succeeded, failed
	Error     string    `gorm:"type:text;column:error" json:"error"`
	FieldErrs string    `gorm:"type:text;column:fields" json:"fields"` // JSON 编码的字段级错误
	CreatedAt time.Time `gorm:"type:datetime;not null;index:idx_storage_requests_created_at;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (StorageRequest) TableName() string {
	return "storage_requests"
}
