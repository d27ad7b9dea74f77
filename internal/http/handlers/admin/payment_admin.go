package admin

import (
	"errors"
	"strings"

	handlershared "github.com/himalbox/internal/http/handlers/shared"
	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/repository"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminPaymentListQuery 支付记录列表查询参数
type AdminPaymentListQuery struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	UserID      uint   `form:"user_id"`
	GatewayCode string `form:"gateway_code"`
	Status      string `form:"status"`
}

// ListPayments 支付记录列表
func (h *Handler) ListPayments(c *gin.Context) {
	var query AdminPaymentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      query.UserID,
		GatewayCode: strings.TrimSpace(query.GatewayCode),
		Status:      strings.TrimSpace(query.Status),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, payments, handlershared.BuildPagination(page, pageSize, total))
}

// GetPayment 按支付单号查询支付记录
func (h *Handler) GetPayment(c *gin.Context) {
	payment, err := h.PaymentService.GetPayment(c.Param("payment_no"))
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			respondError(c, response.CodeNotFound, "error.payment_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, payment)
}
