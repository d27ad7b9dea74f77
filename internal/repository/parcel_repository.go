package repository

import (
	"errors"

	"github.com/himalbox/internal/models"

	"gorm.io/gorm"
)

// ParcelRepository 包裹数据访问接口
type ParcelRepository interface {
	Create(parcel *models.Parcel) error
	Update(parcel *models.Parcel) error
	GetByID(id uint) (*models.Parcel, error)
	GetByTrackingNo(trackingNo string) (*models.Parcel, error)
	ListByIDs(ids []uint) ([]models.Parcel, error)
	List(filter ParcelListFilter) ([]models.Parcel, int64, error)
	WithTx(tx *gorm.DB) *GormParcelRepository
}

// GormParcelRepository GORM 实现
type GormParcelRepository struct {
	db *gorm.DB
}

// NewParcelRepository 创建包裹仓库
func NewParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

// WithTx 绑定事务
func (r *GormParcelRepository) WithTx(tx *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: tx}
}

// Create 创建包裹
func (r *GormParcelRepository) Create(parcel *models.Parcel) error {
	return r.db.Create(parcel).Error
}

// Update 更新包裹
func (r *GormParcelRepository) Update(parcel *models.Parcel) error {
	return r.db.Save(parcel).Error
}

// GetByID 根据 ID 获取包裹
func (r *GormParcelRepository) GetByID(id uint) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.First(&parcel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &parcel, nil
}

// GetByTrackingNo 根据运单号获取包裹
func (r *GormParcelRepository) GetByTrackingNo(trackingNo string) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.Where("tracking_no = ?", trackingNo).First(&parcel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &parcel, nil
}

// ListByIDs 根据 ID 列表获取包裹
func (r *GormParcelRepository) ListByIDs(ids []uint) ([]models.Parcel, error) {
	if len(ids) == 0 {
		return []models.Parcel{}, nil
	}
	var parcels []models.Parcel
	if err := r.db.Where("id IN ?", ids).Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

// List 包裹列表
func (r *GormParcelRepository) List(filter ParcelListFilter) ([]models.Parcel, int64, error) {
	query := r.db.Model(&models.Parcel{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TrackingNo != "" {
		query = query.Where("tracking_no LIKE ?", "%"+filter.TrackingNo+"%")
	}
	if filter.ConsolidationID > 0 {
		query = query.Where("consolidation_id = ?", filter.ConsolidationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var parcels []models.Parcel
	if err := query.Order("id DESC").Find(&parcels).Error; err != nil {
		return nil, 0, err
	}
	return parcels, total, nil
}

// ConsolidationRepository 集运单数据访问接口
type ConsolidationRepository interface {
	Create(consolidation *models.Consolidation) error
	Update(consolidation *models.Consolidation) error
	GetByID(id uint) (*models.Consolidation, error)
	List(filter ConsolidationListFilter) ([]models.Consolidation, int64, error)
	WithTx(tx *gorm.DB) *GormConsolidationRepository
}

// GormConsolidationRepository GORM 实现
type GormConsolidationRepository struct {
	db *gorm.DB
}

// NewConsolidationRepository 创建集运单仓库
func NewConsolidationRepository(db *gorm.DB) *GormConsolidationRepository {
	return &GormConsolidationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormConsolidationRepository) WithTx(tx *gorm.DB) *GormConsolidationRepository {
	return &GormConsolidationRepository{db: tx}
}

// Create 创建集运单
func (r *GormConsolidationRepository) Create(consolidation *models.Consolidation) error {
	return r.db.Create(consolidation).Error
}

// Update 更新集运单
func (r *GormConsolidationRepository) Update(consolidation *models.Consolidation) error {
	return r.db.Save(consolidation).Error
}

// GetByID 根据 ID 获取集运单（含包裹）
func (r *GormConsolidationRepository) GetByID(id uint) (*models.Consolidation, error) {
	var consolidation models.Consolidation
	if err := r.db.Preload("Parcels").First(&consolidation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consolidation, nil
}

// List 集运单列表
func (r *GormConsolidationRepository) List(filter ConsolidationListFilter) ([]models.Consolidation, int64, error) {
	query := r.db.Model(&models.Consolidation{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DestCountry != "" {
		query = query.Where("dest_country = ?", filter.DestCountry)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var consolidations []models.Consolidation
	if err := query.Order("id DESC").Find(&consolidations).Error; err != nil {
		return nil, 0, err
	}
	return consolidations, total, nil
}
