package service

import (
	"context"
	"strings"
	"time"

	"github.com/himalbox/internal/cache"
	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"
)

// CatalogService 网关目录服务：网关配置、国家配置与全局优先级的读写，
// 读路径经 Redis read-through 缓存。
type CatalogService struct {
	gatewayRepo repository.GatewayRepository
	countryRepo repository.CountrySettingRepository
	settingRepo repository.SettingRepository
	catalogTTL  time.Duration
	priorityTTL time.Duration
}

// NewCatalogService 创建网关目录服务
func NewCatalogService(gatewayRepo repository.GatewayRepository, countryRepo repository.CountrySettingRepository, settingRepo repository.SettingRepository, catalogTTLSeconds, priorityTTLSeconds int) *CatalogService {
	catalogTTL := time.Duration(catalogTTLSeconds) * time.Second
	if catalogTTL <= 0 {
		catalogTTL = 5 * time.Minute
	}
	priorityTTL := time.Duration(priorityTTLSeconds) * time.Second
	if priorityTTL <= 0 {
		priorityTTL = 5 * time.Minute
	}
	return &CatalogService{
		gatewayRepo: gatewayRepo,
		countryRepo: countryRepo,
		settingRepo: settingRepo,
		catalogTTL:  catalogTTL,
		priorityTTL: priorityTTL,
	}
}

// ListActiveGateways 获取启用网关目录（缓存优先）
func (s *CatalogService) ListActiveGateways(ctx context.Context) ([]models.PaymentGateway, error) {
	var cached []models.PaymentGateway
	hit, err := cache.GetJSON(ctx, constants.CacheKeyGatewayCatalog, &cached)
	if err != nil {
		logger.Warnw("gateway_catalog_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	gateways, err := s.gatewayRepo.ListActive()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyGatewayCatalog, gateways, s.catalogTTL); err != nil {
		logger.Warnw("gateway_catalog_cache_write_failed", "error", err)
	}
	return gateways, nil
}

// GetGatewayByCode 按代码获取网关
func (s *CatalogService) GetGatewayByCode(code string) (*models.PaymentGateway, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrGatewayNotFound
	}
	gateway, err := s.gatewayRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if gateway == nil {
		return nil, ErrGatewayNotFound
	}
	return gateway, nil
}

// ListGateways 网关列表（管理端）
func (s *CatalogService) ListGateways(filter repository.GatewayListFilter) ([]models.PaymentGateway, int64, error) {
	return s.gatewayRepo.List(filter)
}

// SaveGateway 创建或更新网关并失效目录缓存
func (s *CatalogService) SaveGateway(ctx context.Context, gateway *models.PaymentGateway) error {
	if err := s.validateGateway(gateway); err != nil {
		return err
	}
	var err error
	if gateway.ID == 0 {
		err = s.gatewayRepo.Create(gateway)
	} else {
		err = s.gatewayRepo.Update(gateway)
	}
	if err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	logger.Infow("gateway_saved", "gateway_code", gateway.Code, "gateway_id", gateway.ID)
	return nil
}

// DeleteGateway 删除网关并失效目录缓存
func (s *CatalogService) DeleteGateway(ctx context.Context, id uint) error {
	gateway, err := s.gatewayRepo.GetByID(id)
	if err != nil {
		return err
	}
	if gateway == nil {
		return ErrGatewayNotFound
	}
	if err := s.gatewayRepo.Delete(id); err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	logger.Infow("gateway_deleted", "gateway_code", gateway.Code, "gateway_id", id)
	return nil
}

func (s *CatalogService) validateGateway(gateway *models.PaymentGateway) error {
	if gateway == nil {
		return ErrGatewayConfigInvalid
	}
	gateway.Code = strings.ToLower(strings.TrimSpace(gateway.Code))
	gateway.Name = strings.TrimSpace(gateway.Name)
	if gateway.Code == "" || gateway.Name == "" {
		return ErrGatewayConfigInvalid
	}
	if len(gateway.Currencies) == 0 {
		return ErrGatewayConfigInvalid
	}
	// 启用状态下必须带当前模式的凭证，未配置凭证的网关不允许上线
	if gateway.IsActive && !gateway.HasCredentials() {
		return ErrGatewayConfigInvalid
	}
	return nil
}

// GetCountrySetting 按国家代码获取配置
func (s *CatalogService) GetCountrySetting(code string) (*models.CountrySetting, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCountrySettingNotFound
	}
	setting, err := s.countryRepo.GetByCountryCode(code)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrCountrySettingNotFound
	}
	return setting, nil
}

// ListCountrySettings 国家配置列表
func (s *CatalogService) ListCountrySettings(filter repository.CountrySettingListFilter) ([]models.CountrySetting, int64, error) {
	return s.countryRepo.List(filter)
}

// SaveCountrySetting 创建或更新国家配置
func (s *CatalogService) SaveCountrySetting(ctx context.Context, setting *models.CountrySetting) error {
	if setting == nil {
		return ErrCountrySettingNotFound
	}
	setting.CountryCode = strings.ToUpper(strings.TrimSpace(setting.CountryCode))
	if setting.CountryCode == "" {
		return ErrCountrySettingNotFound
	}
	setting.DefaultGateway = strings.ToLower(strings.TrimSpace(setting.DefaultGateway))
	var err error
	if setting.ID == 0 {
		err = s.countryRepo.Create(setting)
	} else {
		err = s.countryRepo.Update(setting)
	}
	if err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	logger.Infow("country_setting_saved", "country_code", setting.CountryCode)
	return nil
}

// DeleteCountrySetting 删除国家配置
func (s *CatalogService) DeleteCountrySetting(ctx context.Context, id uint) error {
	setting, err := s.countryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if setting == nil {
		return ErrCountrySettingNotFound
	}
	if err := s.countryRepo.Delete(id); err != nil {
		return err
	}
	s.InvalidateCatalog(ctx)
	return nil
}

// GatewayPriority 获取全局网关优先级列表（缓存优先，未配置返回空）
func (s *CatalogService) GatewayPriority(ctx context.Context) ([]string, error) {
	var cached []string
	hit, err := cache.GetJSON(ctx, constants.CacheKeyGatewayPriority, &cached)
	if err != nil {
		logger.Warnw("gateway_priority_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	setting, err := s.settingRepo.GetByKey(constants.SettingKeyGatewayPriority)
	if err != nil {
		return nil, err
	}
	priority := parsePriorityValue(setting)
	if err := cache.SetJSON(ctx, constants.CacheKeyGatewayPriority, priority, s.priorityTTL); err != nil {
		logger.Warnw("gateway_priority_cache_write_failed", "error", err)
	}
	return priority, nil
}

// SetGatewayPriority 更新全局网关优先级列表
func (s *CatalogService) SetGatewayPriority(ctx context.Context, codes []string) error {
	normalized := make([]interface{}, 0, len(codes))
	for _, code := range codes {
		trimmed := strings.ToLower(strings.TrimSpace(code))
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	if _, err := s.settingRepo.Upsert(constants.SettingKeyGatewayPriority, models.JSON{"codes": normalized}); err != nil {
		return err
	}
	if err := cache.Del(ctx, constants.CacheKeyGatewayPriority); err != nil {
		logger.Warnw("gateway_priority_cache_del_failed", "error", err)
	}
	logger.Infow("gateway_priority_updated", "count", len(normalized))
	return nil
}

// InvalidateCatalog 失效网关目录与优先级缓存
func (s *CatalogService) InvalidateCatalog(ctx context.Context) {
	if err := cache.Del(ctx, constants.CacheKeyGatewayCatalog); err != nil {
		logger.Warnw("gateway_catalog_cache_del_failed", "error", err)
	}
	if err := cache.Del(ctx, constants.CacheKeyGatewayPriority); err != nil {
		logger.Warnw("gateway_priority_cache_del_failed", "error", err)
	}
}

func parsePriorityValue(setting *models.Setting) []string {
	if setting == nil || setting.ValueJSON == nil {
		return []string{}
	}
	raw, ok := setting.ValueJSON["codes"]
	if !ok {
		return []string{}
	}
	items, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}
	codes := make([]string, 0, len(items))
	for _, item := range items {
		if code, ok := item.(string); ok {
			trimmed := strings.ToLower(strings.TrimSpace(code))
			if trimmed != "" {
				codes = append(codes, trimmed)
			}
		}
	}
	return codes
}
