package models

import (
	"time"

	"gorm.io/gorm"
)

// Quote 报价单（代购/集运请求的报价）
type Quote struct {
	ID           uint           `gorm:"primarykey" json:"id"`                              // 主键
	QuoteNo      string         `gorm:"uniqueIndex;not null" json:"quote_no"`              // 报价单号
	UserID       uint           `gorm:"index" json:"user_id"`                              // 用户 ID（游客为 0）
	GuestEmail   string         `gorm:"type:varchar(255);index" json:"guest_email"`        // 游客邮箱
	DestCountry  string         `gorm:"type:varchar(8);index" json:"dest_country"`         // 目的国家代码
	Currency     string         `gorm:"type:varchar(8);not null" json:"currency"`          // 报价币种
	Amount       Money          `gorm:"type:decimal(12,2);not null;default:0" json:"amount"` // 报价金额
	WeightKg     Money          `gorm:"type:decimal(10,2);default:0" json:"weight_kg"`     // 预估重量（kg）
	Status       string         `gorm:"type:varchar(24);index;not null" json:"status"`     // 状态（draft/quoted/awaiting_payment/paid/canceled）
	Note         string         `gorm:"type:text" json:"note"`                             // 备注
	QuotedAt     *time.Time     `json:"quoted_at"`                                         // 报价时间
	PaidAt       *time.Time     `json:"paid_at"`                                           // 支付时间
	Items        []QuoteItem    `gorm:"foreignKey:QuoteID" json:"items"`                   // 报价条目
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Quote) TableName() string {
	return "quotes"
}

// IsPayable 判断报价单是否处于可支付状态
func (q *Quote) IsPayable() bool {
	return q.Status == "quoted" || q.Status == "awaiting_payment"
}

// QuoteItem 报价条目
type QuoteItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                   // 主键
	QuoteID    uint      `gorm:"index;not null" json:"quote_id"`                         // 所属报价单
	ItemName   string    `gorm:"not null" json:"item_name"`                              // 商品名称
	ItemURL    string    `gorm:"type:varchar(1000)" json:"item_url"`                     // 商品链接
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`                     // 数量
	UnitPrice  Money     `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"` // 单价
	CreatedAt  time.Time `json:"created_at"`                                             // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (QuoteItem) TableName() string {
	return "quote_items"
}
