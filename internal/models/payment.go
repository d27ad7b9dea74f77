package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录（一次网关调用对应一条）
type Payment struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // 主键
	PaymentNo   string         `gorm:"uniqueIndex;not null" json:"payment_no"`              // 支付单号（客户端引用）
	UserID      uint           `gorm:"index" json:"user_id"`                                // 用户 ID（游客为 0）
	GuestEmail  string         `gorm:"type:varchar(255)" json:"guest_email"`                // 游客邮箱
	QuoteIDs    StringArray    `gorm:"type:json" json:"quote_ids"`                          // 关联报价单号
	GatewayCode string         `gorm:"type:varchar(64);index;not null" json:"gateway_code"` // 网关代码
	Currency    string         `gorm:"type:varchar(8);not null" json:"currency"`            // 支付币种
	Amount      Money          `gorm:"type:decimal(12,2);not null" json:"amount"`           // 支付金额
	Status      string         `gorm:"type:varchar(24);index;not null" json:"status"`       // 状态（pending/processing/succeeded/failed）
	OutcomeKind string         `gorm:"type:varchar(24)" json:"outcome_kind"`                // 网关返回形态（redirect/qr/confirmation/processing）
	Reference   string         `gorm:"type:varchar(255)" json:"reference"`                  // 网关返回的交易引用
	FailReason  string         `gorm:"type:text" json:"fail_reason"`                        // 失败原因
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
