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

// CountrySettingRequest 国家配置创建/更新请求
type CountrySettingRequest struct {
	AvailableGateways []string    `json:"available_gateways"`
	DefaultGateway    string      `json:"default_gateway"`
	Overrides         models.JSON `json:"overrides"`
}

// CountrySettingListQuery 国家配置列表查询参数
type CountrySettingListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// GatewayPriorityRequest 全局网关优先级更新请求
type GatewayPriorityRequest struct {
	Codes []string `json:"codes" binding:"required"`
}

// ListCountrySettings 国家配置列表
func (h *Handler) ListCountrySettings(c *gin.Context) {
	var query CountrySettingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	settings, total, err := h.CatalogService.ListCountrySettings(repository.CountrySettingListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(query.Search),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, settings, handlershared.BuildPagination(page, pageSize, total))
}

// GetCountrySetting 按国家代码查询配置
func (h *Handler) GetCountrySetting(c *gin.Context) {
	setting, err := h.CatalogService.GetCountrySetting(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrCountrySettingNotFound) {
			respondError(c, response.CodeNotFound, "error.country_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, setting)
}

// SaveCountrySetting 创建或更新国家配置（按国家代码幂等）
func (h *Handler) SaveCountrySetting(c *gin.Context) {
	var req CountrySettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}

	setting, err := h.CatalogService.GetCountrySetting(c.Param("code"))
	if err != nil {
		if !errors.Is(err, service.ErrCountrySettingNotFound) {
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		setting = &models.CountrySetting{CountryCode: c.Param("code")}
	}
	setting.AvailableGateways = models.StringArray(req.AvailableGateways)
	setting.DefaultGateway = req.DefaultGateway
	if req.Overrides != nil {
		setting.Overrides = req.Overrides
	}

	if err := h.CatalogService.SaveCountrySetting(c.Request.Context(), setting); err != nil {
		if errors.Is(err, service.ErrCountrySettingNotFound) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, setting)
}

// DeleteCountrySetting 删除国家配置
func (h *Handler) DeleteCountrySetting(c *gin.Context) {
	setting, err := h.CatalogService.GetCountrySetting(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrCountrySettingNotFound) {
			respondError(c, response.CodeNotFound, "error.country_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if err := h.CatalogService.DeleteCountrySetting(c.Request.Context(), setting.ID); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetGatewayPriority 查询全局网关优先级
func (h *Handler) GetGatewayPriority(c *gin.Context) {
	codes, err := h.CatalogService.GatewayPriority(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"codes": codes})
}

// SetGatewayPriority 更新全局网关优先级
func (h *Handler) SetGatewayPriority(c *gin.Context) {
	var req GatewayPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	if err := h.CatalogService.SetGatewayPriority(c.Request.Context(), req.Codes); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"codes": req.Codes})
}
