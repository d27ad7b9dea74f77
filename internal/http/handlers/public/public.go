package public

import (
	"strings"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// GetConfig 站点公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	currency := constants.SiteCurrencyDefault
	if setting, err := h.SettingRepo.GetByKey(constants.SettingKeySiteCurrency); err == nil && setting != nil {
		if code, ok := setting.ValueJSON["code"].(string); ok && strings.TrimSpace(code) != "" {
			currency = strings.ToUpper(strings.TrimSpace(code))
		}
	}
	response.Success(c, gin.H{
		"site_currency": currency,
		"locales":       constants.SupportedLocales,
	})
}

// PaymentMethodsQuery 支付方式查询参数
type PaymentMethodsQuery struct {
	Currency string `form:"currency"`
	Country  string `form:"country"`
}

// GetPaymentMethods 查询当前可用的支付方式及推荐项
func (h *Handler) GetPaymentMethods(c *gin.Context) {
	var query PaymentMethodsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user := h.currentUser(c)
	currency := strings.ToUpper(strings.TrimSpace(query.Currency))
	country := strings.ToUpper(strings.TrimSpace(query.Country))
	if user != nil {
		if currency == "" {
			currency = user.PreferredCurrency
		}
		if country == "" {
			country = user.CountryCode
		}
	}
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}

	result := h.MethodService.ResolveAvailable(c.Request.Context(), service.AvailabilityInput{
		Currency: currency,
		Country:  country,
		User:     user,
	})
	recommended := h.MethodService.Recommend(c.Request.Context(), country, result.Codes)

	response.Success(c, gin.H{
		"currency":    currency,
		"country":     country,
		"codes":       result.Codes,
		"methods":     h.MethodService.DisplayList(result),
		"recommended": recommended,
		"fallback":    result.Fallback,
	})
}

// ValidatePayment 预校验支付请求（不产生副作用）
func (h *Handler) ValidatePayment(c *gin.Context) {
	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}

	user := h.currentUser(c)
	country := strings.ToUpper(strings.TrimSpace(req.GuestCountry))
	if user != nil {
		country = user.CountryCode
	}
	result := h.MethodService.ResolveAvailable(c.Request.Context(), service.AvailabilityInput{
		Currency: req.Currency,
		Country:  country,
		User:     user,
	})
	validation := service.ValidatePaymentRequest(&req, result.Codes)
	response.Success(c, validation)
}
