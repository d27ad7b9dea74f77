package repository

import (
	"errors"

	"github.com/himalbox/internal/models"

	"gorm.io/gorm"
)

// GatewayRepository 支付网关数据访问接口
type GatewayRepository interface {
	Create(gateway *models.PaymentGateway) error
	Update(gateway *models.PaymentGateway) error
	Delete(id uint) error
	GetByID(id uint) (*models.PaymentGateway, error)
	GetByCode(code string) (*models.PaymentGateway, error)
	ListActive() ([]models.PaymentGateway, error)
	List(filter GatewayListFilter) ([]models.PaymentGateway, int64, error)
}

// GormGatewayRepository GORM 实现
type GormGatewayRepository struct {
	db *gorm.DB
}

// NewGatewayRepository 创建支付网关仓库
func NewGatewayRepository(db *gorm.DB) *GormGatewayRepository {
	return &GormGatewayRepository{db: db}
}

// Create 创建支付网关
func (r *GormGatewayRepository) Create(gateway *models.PaymentGateway) error {
	return r.db.Create(gateway).Error
}

// Update 更新支付网关
func (r *GormGatewayRepository) Update(gateway *models.PaymentGateway) error {
	return r.db.Save(gateway).Error
}

// Delete 删除支付网关
func (r *GormGatewayRepository) Delete(id uint) error {
	return r.db.Delete(&models.PaymentGateway{}, id).Error
}

// GetByID 根据 ID 获取支付网关
func (r *GormGatewayRepository) GetByID(id uint) (*models.PaymentGateway, error) {
	var gateway models.PaymentGateway
	if err := r.db.First(&gateway, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gateway, nil
}

// GetByCode 根据代码获取支付网关
func (r *GormGatewayRepository) GetByCode(code string) (*models.PaymentGateway, error) {
	var gateway models.PaymentGateway
	if err := r.db.Where("code = ?", code).First(&gateway).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gateway, nil
}

// ListActive 获取全部启用网关（按排序）
func (r *GormGatewayRepository) ListActive() ([]models.PaymentGateway, error) {
	var gateways []models.PaymentGateway
	if err := r.db.Where("is_active = ?", true).
		Order("sort_order DESC, id ASC").
		Find(&gateways).Error; err != nil {
		return nil, err
	}
	return gateways, nil
}

// List 支付网关列表
func (r *GormGatewayRepository) List(filter GatewayListFilter) ([]models.PaymentGateway, int64, error) {
	query := r.db.Model(&models.PaymentGateway{})

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var gateways []models.PaymentGateway
	if err := query.Order("sort_order DESC, id ASC").Find(&gateways).Error; err != nil {
		return nil, 0, err
	}

	// 国家/币种存 JSON 列，按驱动方言差异较大，这里在内存中过滤
	if filter.Country != "" || filter.Currency != "" {
		filtered := gateways[:0]
		for _, gateway := range gateways {
			if filter.Country != "" && !gateway.SupportsCountry(filter.Country) {
				continue
			}
			if filter.Currency != "" && !gateway.SupportsCurrency(filter.Currency) {
				continue
			}
			filtered = append(filtered, gateway)
		}
		gateways = filtered
		total = int64(len(gateways))
	}
	return gateways, total, nil
}
