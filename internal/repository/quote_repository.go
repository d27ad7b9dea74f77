package repository

import (
	"errors"

	"github.com/himalbox/internal/models"

	"gorm.io/gorm"
)

// QuoteRepository 报价单数据访问接口
type QuoteRepository interface {
	Create(quote *models.Quote) error
	Update(quote *models.Quote) error
	GetByID(id uint) (*models.Quote, error)
	GetByQuoteNo(quoteNo string) (*models.Quote, error)
	ListByQuoteNos(quoteNos []string) ([]models.Quote, error)
	List(filter QuoteListFilter) ([]models.Quote, int64, error)
	WithTx(tx *gorm.DB) *GormQuoteRepository
}

// GormQuoteRepository GORM 实现
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository 创建报价单仓库
func NewQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// WithTx 绑定事务
func (r *GormQuoteRepository) WithTx(tx *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: tx}
}

// Create 创建报价单（含条目）
func (r *GormQuoteRepository) Create(quote *models.Quote) error {
	return r.db.Create(quote).Error
}

// Update 更新报价单
func (r *GormQuoteRepository) Update(quote *models.Quote) error {
	return r.db.Save(quote).Error
}

// GetByID 根据 ID 获取报价单
func (r *GormQuoteRepository) GetByID(id uint) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.Preload("Items").First(&quote, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

// GetByQuoteNo 根据报价单号获取报价单
func (r *GormQuoteRepository) GetByQuoteNo(quoteNo string) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.Preload("Items").Where("quote_no = ?", quoteNo).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

// ListByQuoteNos 根据报价单号列表获取报价单
func (r *GormQuoteRepository) ListByQuoteNos(quoteNos []string) ([]models.Quote, error) {
	if len(quoteNos) == 0 {
		return []models.Quote{}, nil
	}
	var quotes []models.Quote
	if err := r.db.Where("quote_no IN ?", quoteNos).Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// List 报价单列表
func (r *GormQuoteRepository) List(filter QuoteListFilter) ([]models.Quote, int64, error) {
	query := r.db.Model(&models.Quote{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.GuestEmail != "" {
		query = query.Where("guest_email = ?", filter.GuestEmail)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DestCountry != "" {
		query = query.Where("dest_country = ?", filter.DestCountry)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var quotes []models.Quote
	if err := query.Order("id DESC").Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}
