package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentGateway 支付网关配置
type PaymentGateway struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Name        string         `gorm:"not null" json:"name"`                                    // 网关名称
	Code        string         `gorm:"uniqueIndex;not null" json:"code"`                        // 网关代码（稳定键）
	Countries   StringArray    `gorm:"type:json" json:"countries"`                              // 支持的国家代码
	Currencies  StringArray    `gorm:"type:json" json:"currencies"`                             // 支持的币种代码
	PercentFee  Money          `gorm:"type:decimal(6,2);not null;default:0" json:"percent_fee"` // 手续费比例（百分比）
	FixedFee    Money          `gorm:"type:decimal(12,2);not null;default:0" json:"fixed_fee"`  // 固定手续费
	Credentials JSON           `gorm:"type:json" json:"-"`                                      // 凭证配置（test/live 两套）
	TestMode    bool           `gorm:"not null;default:true" json:"test_mode"`                  // 是否测试模式
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`                  // 是否启用
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`                    // 排序
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (PaymentGateway) TableName() string {
	return "payment_gateways"
}

// SupportsCurrency 判断网关是否支持指定币种
func (g *PaymentGateway) SupportsCurrency(currency string) bool {
	return g.Currencies.Contains(currency)
}

// SupportsCountry 判断网关是否支持指定国家
func (g *PaymentGateway) SupportsCountry(country string) bool {
	return g.Countries.Contains(country)
}

// ActiveCredentials 返回当前模式对应的凭证配置
func (g *PaymentGateway) ActiveCredentials() map[string]interface{} {
	key := "live"
	if g.TestMode {
		key = "test"
	}
	raw, ok := g.Credentials[key]
	if !ok {
		return nil
	}
	creds, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	return creds
}

// HasCredentials 判断当前模式下是否配置了凭证
func (g *PaymentGateway) HasCredentials() bool {
	creds := g.ActiveCredentials()
	for _, v := range creds {
		if s, ok := v.(string); ok && s != "" {
			return true
		}
		if v != nil {
			return true
		}
	}
	return false
}
