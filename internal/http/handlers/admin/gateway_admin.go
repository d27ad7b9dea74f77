package admin

import (
	"errors"
	"strings"

	handlershared "github.com/himalbox/internal/http/handlers/shared"
	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// GatewayRequest 网关创建/更新请求
type GatewayRequest struct {
	Name        string       `json:"name" binding:"required"`
	Code        string       `json:"code" binding:"required"`
	Countries   []string     `json:"countries"`
	Currencies  []string     `json:"currencies" binding:"required"`
	PercentFee  models.Money `json:"percent_fee"`
	FixedFee    models.Money `json:"fixed_fee"`
	Credentials models.JSON  `json:"credentials"`
	TestMode    *bool        `json:"test_mode"`
	IsActive    *bool        `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

// GatewayListQuery 网关列表查询参数
type GatewayListQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Country    string `form:"country"`
	Currency   string `form:"currency"`
	ActiveOnly bool   `form:"active_only"`
}

// ListGateways 网关列表
func (h *Handler) ListGateways(c *gin.Context) {
	var query GatewayListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	gateways, total, err := h.CatalogService.ListGateways(repository.GatewayListFilter{
		Page:       page,
		PageSize:   pageSize,
		Country:    strings.TrimSpace(query.Country),
		Currency:   strings.TrimSpace(query.Currency),
		ActiveOnly: query.ActiveOnly,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gateways, handlershared.BuildPagination(page, pageSize, total))
}

// GetGateway 按代码查询网关
func (h *Handler) GetGateway(c *gin.Context) {
	gateway, err := h.CatalogService.GetGatewayByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrGatewayNotFound) {
			respondError(c, response.CodeNotFound, "error.gateway_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	// 管理端需要回显凭证配置
	response.Success(c, gin.H{
		"gateway":     gateway,
		"credentials": gateway.Credentials,
	})
}

// CreateGateway 创建网关
func (h *Handler) CreateGateway(c *gin.Context) {
	var req GatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}

	gateway := &models.PaymentGateway{}
	applyGatewayRequest(gateway, &req)
	if err := h.CatalogService.SaveGateway(c.Request.Context(), gateway); err != nil {
		respondGatewaySaveError(c, err)
		return
	}
	response.Success(c, gateway)
}

// UpdateGateway 更新网关
func (h *Handler) UpdateGateway(c *gin.Context) {
	gateway, err := h.CatalogService.GetGatewayByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrGatewayNotFound) {
			respondError(c, response.CodeNotFound, "error.gateway_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	var req GatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	applyGatewayRequest(gateway, &req)
	if err := h.CatalogService.SaveGateway(c.Request.Context(), gateway); err != nil {
		respondGatewaySaveError(c, err)
		return
	}
	response.Success(c, gateway)
}

// DeleteGateway 删除网关
func (h *Handler) DeleteGateway(c *gin.Context) {
	gateway, err := h.CatalogService.GetGatewayByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrGatewayNotFound) {
			respondError(c, response.CodeNotFound, "error.gateway_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if err := h.CatalogService.DeleteGateway(c.Request.Context(), gateway.ID); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func applyGatewayRequest(gateway *models.PaymentGateway, req *GatewayRequest) {
	gateway.Name = req.Name
	gateway.Code = req.Code
	gateway.Countries = models.StringArray(req.Countries)
	gateway.Currencies = models.StringArray(req.Currencies)
	gateway.PercentFee = req.PercentFee
	gateway.FixedFee = req.FixedFee
	gateway.SortOrder = req.SortOrder
	if req.Credentials != nil {
		gateway.Credentials = req.Credentials
	}
	if req.TestMode != nil {
		gateway.TestMode = *req.TestMode
	}
	if req.IsActive != nil {
		gateway.IsActive = *req.IsActive
	}
}

func respondGatewaySaveError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrGatewayConfigInvalid) {
		respondError(c, response.CodeBadRequest, "error.gateway_config_invalid", nil)
		return
	}
	respondError(c, response.CodeInternal, "error.internal", err)
}
