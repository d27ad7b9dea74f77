package service

import (
	"strings"

	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"
)

// ProfileService 用户资料服务（支付相关切片）
type ProfileService struct {
	userRepo repository.UserRepository
}

// NewProfileService 创建用户资料服务
func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetUser 按 ID 获取用户
func (s *ProfileService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUserByExternalID 按外部账号标识获取用户
func (s *ProfileService) GetUserByExternalID(externalID string) (*models.User, error) {
	user, err := s.userRepo.GetByExternalID(strings.TrimSpace(externalID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdatePaymentProfileInput 更新支付相关资料输入
type UpdatePaymentProfileInput struct {
	UserID            uint
	PreferredCurrency *string
	CountryCode       *string
	CODOptIn          *bool
}

// UpdatePaymentProfile 更新支付相关资料切片（仅更新传入字段）
func (s *ProfileService) UpdatePaymentProfile(input UpdatePaymentProfileInput) (*models.User, error) {
	user, err := s.GetUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if input.PreferredCurrency != nil {
		user.PreferredCurrency = strings.ToUpper(strings.TrimSpace(*input.PreferredCurrency))
	}
	if input.CountryCode != nil {
		user.CountryCode = strings.ToUpper(strings.TrimSpace(*input.CountryCode))
	}
	if input.CODOptIn != nil {
		user.CODOptIn = *input.CODOptIn
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	logger.Infow("payment_profile_updated",
		"user_id", user.ID,
		"preferred_currency", user.PreferredCurrency,
		"country_code", user.CountryCode,
		"cod_opt_in", user.CODOptIn,
	)
	return user, nil
}
