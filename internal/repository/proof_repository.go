package repository

import (
	"errors"

	"github.com/himalbox/internal/models"

	"gorm.io/gorm"
)

// ProofRepository 支付凭证数据访问接口
type ProofRepository interface {
	Create(proof *models.PaymentProof) error
	Update(proof *models.PaymentProof) error
	GetByID(id uint) (*models.PaymentProof, error)
	List(filter ProofListFilter) ([]models.PaymentProof, int64, error)
	WithTx(tx *gorm.DB) *GormProofRepository
}

// GormProofRepository GORM 实现
type GormProofRepository struct {
	db *gorm.DB
}

// NewProofRepository 创建支付凭证仓库
func NewProofRepository(db *gorm.DB) *GormProofRepository {
	return &GormProofRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProofRepository) WithTx(tx *gorm.DB) *GormProofRepository {
	return &GormProofRepository{db: tx}
}

// Create 创建支付凭证
func (r *GormProofRepository) Create(proof *models.PaymentProof) error {
	return r.db.Create(proof).Error
}

// Update 更新支付凭证
func (r *GormProofRepository) Update(proof *models.PaymentProof) error {
	return r.db.Save(proof).Error
}

// GetByID 根据 ID 获取支付凭证
func (r *GormProofRepository) GetByID(id uint) (*models.PaymentProof, error) {
	var proof models.PaymentProof
	if err := r.db.First(&proof, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proof, nil
}

// List 支付凭证列表
func (r *GormProofRepository) List(filter ProofListFilter) ([]models.PaymentProof, int64, error) {
	query := r.db.Model(&models.PaymentProof{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.GatewayCode != "" {
		query = query.Where("gateway_code = ?", filter.GatewayCode)
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

	var proofs []models.PaymentProof
	if err := query.Order("id DESC").Find(&proofs).Error; err != nil {
		return nil, 0, err
	}
	return proofs, total, nil
}
