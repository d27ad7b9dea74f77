package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification 站内通知
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`                 // 接收用户
	Type      string         `gorm:"type:varchar(32);index;not null" json:"type"`   // 通知类型
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`       // 标题
	Body      string         `gorm:"type:text" json:"body"`                         // 正文
	Payload   JSON           `gorm:"type:json" json:"payload"`                      // 业务负载（单号、状态等）
	ReadAt    *time.Time     `json:"read_at"`                                       // 已读时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
