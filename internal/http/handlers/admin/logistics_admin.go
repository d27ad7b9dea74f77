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

// AdminParcelListQuery 包裹列表查询参数
type AdminParcelListQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	UserID     uint   `form:"user_id"`
	Status     string `form:"status"`
	TrackingNo string `form:"tracking_no"`
}

// ReceiveParcelRequest 包裹入仓请求
type ReceiveParcelRequest struct {
	TrackingNo string       `json:"tracking_no" binding:"required"`
	WeightKg   models.Money `json:"weight_kg" binding:"required"`
	LengthCm   int          `json:"length_cm"`
	WidthCm    int          `json:"width_cm"`
	HeightCm   int          `json:"height_cm"`
}

// AdminConsolidationListQuery 集运单列表查询参数
type AdminConsolidationListQuery struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	UserID      uint   `form:"user_id"`
	Status      string `form:"status"`
	DestCountry string `form:"dest_country"`
}

// ListParcels 包裹列表
func (h *Handler) ListParcels(c *gin.Context) {
	var query AdminParcelListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	parcels, total, err := h.ParcelService.ListParcels(repository.ParcelListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     query.UserID,
		Status:     strings.TrimSpace(query.Status),
		TrackingNo: strings.TrimSpace(query.TrackingNo),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, parcels, handlershared.BuildPagination(page, pageSize, total))
}

// ReceiveParcel 仓库收货登记
func (h *Handler) ReceiveParcel(c *gin.Context) {
	var req ReceiveParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	parcel, err := h.ParcelService.ReceiveParcel(service.ReceiveParcelInput{
		TrackingNo: req.TrackingNo,
		WeightKg:   req.WeightKg,
		LengthCm:   req.LengthCm,
		WidthCm:    req.WidthCm,
		HeightCm:   req.HeightCm,
	})
	if err != nil {
		if errors.Is(err, service.ErrParcelNotFound) {
			respondError(c, response.CodeNotFound, "error.parcel_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, parcel)
}

// ListConsolidations 集运单列表
func (h *Handler) ListConsolidations(c *gin.Context) {
	var query AdminConsolidationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	consolidations, total, err := h.ParcelService.ListConsolidations(repository.ConsolidationListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      query.UserID,
		Status:      strings.TrimSpace(query.Status),
		DestCountry: strings.TrimSpace(query.DestCountry),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, consolidations, handlershared.BuildPagination(page, pageSize, total))
}

// ShipConsolidation 集运单发货
func (h *Handler) ShipConsolidation(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	consolidation, err := h.ParcelService.ShipConsolidation(id)
	if err != nil {
		if errors.Is(err, service.ErrConsolidationNotFound) {
			respondError(c, response.CodeNotFound, "error.consolidation_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrConsolidationNotOpen) {
			respondError(c, response.CodeBadRequest, "error.consolidation_not_open", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, consolidation)
}
