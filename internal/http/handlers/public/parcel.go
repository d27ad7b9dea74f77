package public

import (
	"strconv"
	"strings"

	handlershared "github.com/himalbox/internal/http/handlers/shared"
	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterParcelRequest 预报包裹请求
type RegisterParcelRequest struct {
	TrackingNo    string       `json:"tracking_no" binding:"required"`
	Description   string       `json:"description"`
	DeclaredValue models.Money `json:"declared_value"`
}

// ParcelListQuery 包裹列表查询参数
type ParcelListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// CreateConsolidationRequest 创建集运单请求
type CreateConsolidationRequest struct {
	DestCountry string `json:"dest_country" binding:"required"`
}

// AddConsolidationParcelsRequest 合箱加包裹请求
type AddConsolidationParcelsRequest struct {
	ParcelIDs []uint `json:"parcel_ids" binding:"required"`
}

// RegisterParcel 登录用户预报包裹
func (h *Handler) RegisterParcel(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req RegisterParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}

	parcel, err := h.ParcelService.RegisterParcel(service.RegisterParcelInput{
		UserID:        uid,
		TrackingNo:    req.TrackingNo,
		Description:   req.Description,
		DeclaredValue: req.DeclaredValue,
	})
	if err != nil {
		respondParcelError(c, err)
		return
	}
	response.Success(c, parcel)
}

// ListParcels 登录用户的包裹列表
func (h *Handler) ListParcels(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var query ParcelListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	parcels, total, err := h.ParcelService.ListParcels(repository.ParcelListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(query.Status),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, parcels, handlershared.BuildPagination(page, pageSize, total))
}

// GetParcel 登录用户按 ID 查询包裹
func (h *Handler) GetParcel(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	parcel, err := h.ParcelService.GetParcel(id)
	if err != nil {
		respondParcelError(c, err)
		return
	}
	if parcel.UserID != uid {
		respondError(c, response.CodeNotFound, "error.parcel_not_found", nil)
		return
	}
	response.Success(c, parcel)
}

// CreateConsolidation 登录用户创建集运单
func (h *Handler) CreateConsolidation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateConsolidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	consolidation, err := h.ParcelService.CreateConsolidation(uid, req.DestCountry)
	if err != nil {
		respondParcelError(c, err)
		return
	}
	response.Success(c, consolidation)
}

// ListConsolidations 登录用户的集运单列表
func (h *Handler) ListConsolidations(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var query ParcelListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	consolidations, total, err := h.ParcelService.ListConsolidations(repository.ConsolidationListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(query.Status),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, consolidations, handlershared.BuildPagination(page, pageSize, total))
}

// GetConsolidation 登录用户按 ID 查询集运单
func (h *Handler) GetConsolidation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	consolidation, ok := h.fetchOwnedConsolidation(c, uid)
	if !ok {
		return
	}
	response.Success(c, consolidation)
}

// AddConsolidationParcels 把已入仓包裹并入集运单
func (h *Handler) AddConsolidationParcels(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	consolidation, ok := h.fetchOwnedConsolidation(c, uid)
	if !ok {
		return
	}
	var req AddConsolidationParcelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	updated, err := h.ParcelService.AddParcels(consolidation.ID, req.ParcelIDs)
	if err != nil {
		respondParcelError(c, err)
		return
	}
	response.Success(c, updated)
}

// CloseConsolidation 合箱封单
func (h *Handler) CloseConsolidation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	consolidation, ok := h.fetchOwnedConsolidation(c, uid)
	if !ok {
		return
	}
	closed, err := h.ParcelService.CloseConsolidation(consolidation.ID)
	if err != nil {
		respondParcelError(c, err)
		return
	}
	response.Success(c, closed)
}

func (h *Handler) fetchOwnedConsolidation(c *gin.Context, uid uint) (*models.Consolidation, bool) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return nil, false
	}
	consolidation, err := h.ParcelService.GetConsolidation(id)
	if err != nil {
		respondParcelError(c, err)
		return nil, false
	}
	if consolidation.UserID != uid {
		respondError(c, response.CodeNotFound, "error.consolidation_not_found", nil)
		return nil, false
	}
	return consolidation, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(value), true
}
