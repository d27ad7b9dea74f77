package public

import (
	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdatePaymentProfileRequest 更新支付相关资料请求
type UpdatePaymentProfileRequest struct {
	PreferredCurrency *string `json:"preferred_currency"`
	CountryCode       *string `json:"country_code"`
	CODOptIn          *bool   `json:"cod_opt_in"`
}

// GetCurrentUser 当前登录用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.ProfileService.GetUser(uid)
	if err != nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", err)
		return
	}
	response.Success(c, user)
}

// UpdatePaymentProfile 更新支付相关资料切片
func (h *Handler) UpdatePaymentProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdatePaymentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	user, err := h.ProfileService.UpdatePaymentProfile(service.UpdatePaymentProfileInput{
		UserID:            uid,
		PreferredCurrency: req.PreferredCurrency,
		CountryCode:       req.CountryCode,
		CODOptIn:          req.CODOptIn,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, user)
}
