package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentProof 线下支付凭证（银行转账/本地钱包的人工核验）
type PaymentProof struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // 主键
	UserID      uint           `gorm:"index" json:"user_id"`                                // 提交用户 ID（游客为 0）
	GuestEmail  string         `gorm:"type:varchar(255)" json:"guest_email"`                // 游客邮箱
	QuoteIDs    StringArray    `gorm:"type:json" json:"quote_ids"`                          // 关联报价单号
	GatewayCode string         `gorm:"type:varchar(64);not null" json:"gateway_code"`       // 支付网关代码
	Currency    string         `gorm:"type:varchar(8);not null" json:"currency"`            // 支付币种
	Amount      Money          `gorm:"type:decimal(12,2);not null" json:"amount"`           // 支付金额
	FileURL     string         `gorm:"type:varchar(1000);not null" json:"file_url"`         // 凭证文件地址
	Note        string         `gorm:"type:text" json:"note"`                               // 用户备注
	Status      string         `gorm:"type:varchar(16);index;not null" json:"status"`       // 状态（pending/verified/rejected）
	ReviewNote  string         `gorm:"type:text" json:"review_note"`                        // 审核备注
	ReviewedBy  string         `gorm:"type:varchar(128)" json:"reviewed_by"`                // 审核人
	ReviewedAt  *time.Time     `json:"reviewed_at"`                                         // 审核时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (PaymentProof) TableName() string {
	return "payment_proofs"
}
