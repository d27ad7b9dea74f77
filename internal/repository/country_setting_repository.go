package repository

import (
	"errors"

	"github.com/himalbox/internal/models"

	"gorm.io/gorm"
)

// CountrySettingRepository 国家配置数据访问接口
type CountrySettingRepository interface {
	Create(setting *models.CountrySetting) error
	Update(setting *models.CountrySetting) error
	Delete(id uint) error
	GetByID(id uint) (*models.CountrySetting, error)
	GetByCountryCode(code string) (*models.CountrySetting, error)
	List(filter CountrySettingListFilter) ([]models.CountrySetting, int64, error)
}

// GormCountrySettingRepository GORM 实现
type GormCountrySettingRepository struct {
	db *gorm.DB
}

// NewCountrySettingRepository 创建国家配置仓库
func NewCountrySettingRepository(db *gorm.DB) *GormCountrySettingRepository {
	return &GormCountrySettingRepository{db: db}
}

// Create 创建国家配置
func (r *GormCountrySettingRepository) Create(setting *models.CountrySetting) error {
	return r.db.Create(setting).Error
}

// Update 更新国家配置
func (r *GormCountrySettingRepository) Update(setting *models.CountrySetting) error {
	return r.db.Save(setting).Error
}

// Delete 删除国家配置
func (r *GormCountrySettingRepository) Delete(id uint) error {
	return r.db.Delete(&models.CountrySetting{}, id).Error
}

// GetByID 根据 ID 获取国家配置
func (r *GormCountrySettingRepository) GetByID(id uint) (*models.CountrySetting, error) {
	var setting models.CountrySetting
	if err := r.db.First(&setting, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// GetByCountryCode 根据国家代码获取配置
func (r *GormCountrySettingRepository) GetByCountryCode(code string) (*models.CountrySetting, error) {
	var setting models.CountrySetting
	if err := r.db.Where("country_code = ?", code).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// List 国家配置列表
func (r *GormCountrySettingRepository) List(filter CountrySettingListFilter) ([]models.CountrySetting, int64, error) {
	query := r.db.Model(&models.CountrySetting{})

	if filter.Search != "" {
		query = query.Where("country_code LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var settings []models.CountrySetting
	if err := query.Order("country_code ASC").Find(&settings).Error; err != nil {
		return nil, 0, err
	}
	return settings, total, nil
}
