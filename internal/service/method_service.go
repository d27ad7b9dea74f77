package service

import (
	"context"
	"strings"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
)

// MethodService 支付方式服务：按国家/币种/用户状态解析可用网关并给出推荐。
type MethodService struct {
	catalogSvc   *CatalogService
	displayTable map[string]MethodDisplay
}

// NewMethodService 创建支付方式服务
func NewMethodService(catalogSvc *CatalogService, displayTable map[string]MethodDisplay) *MethodService {
	if displayTable == nil {
		displayTable = DefaultDisplayTable()
	}
	return &MethodService{
		catalogSvc:   catalogSvc,
		displayTable: displayTable,
	}
}

// AvailabilityInput 可用性解析输入
type AvailabilityInput struct {
	Currency string
	Country  string
	User     *models.User // 已登录用户；游客为 nil
}

// AvailabilityResult 可用性解析结果
type AvailabilityResult struct {
	Gateways []models.PaymentGateway // 可用网关（有序、去重）
	Codes    []string                // 可用网关代码（与 Gateways 同序）
	Fallback bool                    // 是否为读取失败后的兜底结果
}

// ResolveAvailable 解析可用网关。
// 任何读取失败都退化为仅含银行转账的兜底列表，不向上抛错。
func (s *MethodService) ResolveAvailable(ctx context.Context, input AvailabilityInput) AvailabilityResult {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	country := strings.ToUpper(strings.TrimSpace(input.Country))

	catalog, err := s.catalogSvc.ListActiveGateways(ctx)
	if err != nil {
		logger.Errorw("availability_catalog_load_failed", "error", err, "currency", currency, "country", country)
		return fallbackAvailability()
	}
	byCode := make(map[string]models.PaymentGateway, len(catalog))
	for _, gateway := range catalog {
		byCode[strings.ToLower(gateway.Code)] = gateway
	}

	var ordered []models.PaymentGateway

	if country != "" {
		setting, err := s.catalogSvc.GetCountrySetting(country)
		if err != nil && err != ErrCountrySettingNotFound {
			logger.Errorw("availability_country_load_failed", "error", err, "country", country)
			return fallbackAvailability()
		}
		if setting != nil {
			// 国家配置命中：按其有序列表过滤
			for _, code := range setting.AvailableGateways {
				gateway, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
				if !ok || !gateway.IsActive {
					continue
				}
				if !gateway.SupportsCurrency(currency) {
					continue
				}
				if !s.gatewayUsable(gateway, country, input.User) {
					continue
				}
				ordered = append(ordered, gateway)
			}
			// 过滤后为空则继续走通用扫描，过期的国家配置不应清空可用列表
			if len(ordered) > 0 {
				return dedupeAvailability(ordered)
			}
		}
	}

	// 通用扫描：银行转账与货到付款单独处理
	for _, gateway := range catalog {
		code := strings.ToLower(gateway.Code)
		if code == constants.GatewayBankTransfer || code == constants.GatewayCOD {
			continue
		}
		if !gateway.SupportsCurrency(currency) {
			continue
		}
		if country != "" && !gateway.SupportsCountry(country) {
			continue
		}
		if !gateway.HasCredentials() {
			continue
		}
		ordered = append(ordered, gateway)
	}
	if gateway, ok := byCode[constants.GatewayBankTransfer]; ok && gateway.IsActive && gateway.SupportsCurrency(currency) {
		ordered = append(ordered, gateway)
	}
	if gateway, ok := byCode[constants.GatewayCOD]; ok && gateway.IsActive && gateway.SupportsCurrency(currency) {
		if allowCOD(gateway, country, input.User) {
			ordered = append(ordered, gateway)
		}
	}
	return dedupeAvailability(ordered)
}

// gatewayUsable 国家列表路径下的附加约束：凭证齐备，货到付款还要求开通或国家匹配。
// 银行转账与货到付款为人工网关，不做凭证检查。
func (s *MethodService) gatewayUsable(gateway models.PaymentGateway, country string, user *models.User) bool {
	code := strings.ToLower(gateway.Code)
	if code == constants.GatewayBankTransfer {
		return true
	}
	if code == constants.GatewayCOD {
		return allowCOD(gateway, country, user)
	}
	return gateway.HasCredentials()
}

// allowCOD 货到付款准入：登录用户看开通标记，游客看目的国家是否在网关国家列表内。
func allowCOD(gateway models.PaymentGateway, country string, user *models.User) bool {
	if user != nil {
		return user.CODOptIn
	}
	return country != "" && gateway.SupportsCountry(country)
}

func fallbackAvailability() AvailabilityResult {
	return AvailabilityResult{
		Gateways: []models.PaymentGateway{{
			Name:     "Bank Transfer",
			Code:     constants.GatewayBankTransfer,
			IsActive: true,
		}},
		Codes:    []string{constants.GatewayBankTransfer},
		Fallback: true,
	}
}

func dedupeAvailability(gateways []models.PaymentGateway) AvailabilityResult {
	seen := make(map[string]struct{}, len(gateways))
	result := AvailabilityResult{
		Gateways: make([]models.PaymentGateway, 0, len(gateways)),
		Codes:    make([]string, 0, len(gateways)),
	}
	for _, gateway := range gateways {
		code := strings.ToLower(gateway.Code)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		result.Gateways = append(result.Gateways, gateway)
		result.Codes = append(result.Codes, code)
	}
	return result
}

// Recommend 从可用集中选出推荐网关。
// 顺序：国家默认网关 → 国家列表首个命中 → 全局优先级首个命中 →
// 内置兜底顺序 → 银行转账。
func (s *MethodService) Recommend(ctx context.Context, country string, available []string) string {
	availableSet := toSet(available)
	country = strings.ToUpper(strings.TrimSpace(country))

	if country != "" {
		setting, err := s.catalogSvc.GetCountrySetting(country)
		if err != nil && err != ErrCountrySettingNotFound {
			logger.Warnw("recommend_country_load_failed", "error", err, "country", country)
		}
		if setting != nil {
			if code := strings.ToLower(strings.TrimSpace(setting.DefaultGateway)); code != "" {
				if _, ok := availableSet[code]; ok {
					return code
				}
			}
			for _, raw := range setting.AvailableGateways {
				code := strings.ToLower(strings.TrimSpace(raw))
				if _, ok := availableSet[code]; ok {
					return code
				}
			}
		}
	}

	priority, err := s.catalogSvc.GatewayPriority(ctx)
	if err != nil {
		logger.Warnw("recommend_priority_load_failed", "error", err)
		priority = nil
	}
	return RecommendCached(available, priority)
}

// RecommendCached 同步推荐：跳过国家查询，仅用本地已知的优先级列表与内置顺序。
func RecommendCached(available []string, priority []string) string {
	availableSet := toSet(available)
	for _, raw := range priority {
		code := strings.ToLower(strings.TrimSpace(raw))
		if _, ok := availableSet[code]; ok {
			return code
		}
	}
	for _, code := range constants.GatewayFallbackPriority {
		if _, ok := availableSet[code]; ok {
			return code
		}
	}
	return constants.GatewayBankTransfer
}

func toSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		code := strings.ToLower(strings.TrimSpace(raw))
		if code != "" {
			set[code] = struct{}{}
		}
	}
	return set
}
