package models

import (
	"time"

	"gorm.io/gorm"
)

// CountrySetting 国家级支付配置
type CountrySetting struct {
	ID                uint           `gorm:"primarykey" json:"id"`                       // 主键
	CountryCode       string         `gorm:"uniqueIndex;not null" json:"country_code"`   // 国家代码（ISO 3166-1 alpha-2）
	AvailableGateways StringArray    `gorm:"type:json" json:"available_gateways"`        // 该国可用网关（有序）
	DefaultGateway    string         `gorm:"type:varchar(64)" json:"default_gateway"`    // 默认推荐网关
	Overrides         JSON           `gorm:"type:json" json:"overrides"`                 // 国家级覆盖项（文案、费率等）
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                    // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (CountrySetting) TableName() string {
	return "country_settings"
}
