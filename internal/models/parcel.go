package models

import (
	"time"

	"gorm.io/gorm"
)

// Parcel 仓库包裹
type Parcel struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                  // 主键
	UserID          uint           `gorm:"index;not null" json:"user_id"`                         // 所属用户
	TrackingNo      string         `gorm:"uniqueIndex;not null" json:"tracking_no"`               // 入仓运单号
	Description     string         `gorm:"type:varchar(500)" json:"description"`                  // 物品描述
	WeightKg        Money          `gorm:"type:decimal(10,2);default:0" json:"weight_kg"`         // 实际重量（kg）
	LengthCm        int            `gorm:"default:0" json:"length_cm"`                            // 长（cm）
	WidthCm         int            `gorm:"default:0" json:"width_cm"`                             // 宽（cm）
	HeightCm        int            `gorm:"default:0" json:"height_cm"`                            // 高（cm）
	DeclaredValue   Money          `gorm:"type:decimal(12,2);default:0" json:"declared_value"`    // 申报价值
	Status          string         `gorm:"type:varchar(24);index;not null" json:"status"`         // 状态（expected/received/consolidated/shipped/delivered）
	ConsolidationID uint           `gorm:"index" json:"consolidation_id"`                         // 所属集运单（0 为未合箱）
	ReceivedAt      *time.Time     `json:"received_at"`                                           // 入仓时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                               // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (Parcel) TableName() string {
	return "parcels"
}

// Consolidation 集运单（多包裹合箱发货）
type Consolidation struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                    // 主键
	ConsolidationNo string         `gorm:"uniqueIndex;not null" json:"consolidation_no"`            // 集运单号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                           // 所属用户
	DestCountry     string         `gorm:"type:varchar(8);not null" json:"dest_country"`            // 目的国家代码
	Status          string         `gorm:"type:varchar(16);index;not null" json:"status"`           // 状态（open/closed/shipped）
	ChargeableKg    Money          `gorm:"type:decimal(10,2);default:0" json:"chargeable_kg"`       // 计费重量合计（kg）
	ShippingCost    Money          `gorm:"type:decimal(12,2);default:0" json:"shipping_cost"`       // 运费合计
	Currency        string         `gorm:"type:varchar(8)" json:"currency"`                         // 计费币种
	Parcels         []Parcel       `gorm:"foreignKey:ConsolidationID" json:"parcels"`               // 合箱包裹
	ClosedAt        *time.Time     `json:"closed_at"`                                               // 合箱时间
	ShippedAt       *time.Time     `json:"shipped_at"`                                              // 发货时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Consolidation) TableName() string {
	return "consolidations"
}
