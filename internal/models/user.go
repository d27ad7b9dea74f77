package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户资料（支付相关切片）
type User struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                 // 主键
	ExternalID        string         `gorm:"uniqueIndex;not null" json:"external_id"`              // 外部账号系统用户标识
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`                    // 邮箱
	DisplayName       string         `gorm:"type:varchar(128)" json:"display_name"`                // 显示名称
	PreferredCurrency string         `gorm:"type:varchar(8);default:'USD'" json:"preferred_currency"` // 首选展示币种
	CountryCode       string         `gorm:"type:varchar(8);index" json:"country_code"`            // 所在国家代码
	CODOptIn          bool           `gorm:"not null;default:false" json:"cod_opt_in"`             // 是否开通货到付款
	Status            string         `gorm:"type:varchar(16);default:'active'" json:"status"`      // 用户状态
	TokenVersion      int            `gorm:"not null;default:0" json:"-"`                          // 令牌版本（失效旧 token）
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
