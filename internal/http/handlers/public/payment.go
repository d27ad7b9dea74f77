package public

import (
	"errors"
	"strings"

	handlershared "github.com/himalbox/internal/http/handlers/shared"
	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/i18n"
	"github.com/himalbox/internal/repository"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentListQuery 支付记录列表查询参数
type PaymentListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// CreatePayment 登录用户发起支付
func (h *Handler) CreatePayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.ProfileService.GetUser(uid)
	if err != nil {
		respondError(c, response.CodeUnauthorized, "error.user_not_found", err)
		return
	}

	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	req.Guest = false

	result, err := h.PaymentService.CreatePayment(service.CreatePaymentInput{
		Request:     &req,
		User:        user,
		BearerToken: getBearerToken(c),
		Context:     c.Request.Context(),
	})
	if err != nil {
		h.respondCreatePaymentError(c, result, err)
		return
	}
	response.Success(c, buildPaymentResponse(result))
}

// CreateGuestPayment 游客发起支付
func (h *Handler) CreateGuestPayment(c *gin.Context) {
	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	req.Guest = true
	if strings.TrimSpace(req.GuestEmail) == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	result, err := h.PaymentService.CreatePayment(service.CreatePaymentInput{
		Request: &req,
		Context: c.Request.Context(),
	})
	if err != nil {
		h.respondCreatePaymentError(c, result, err)
		return
	}
	response.Success(c, buildPaymentResponse(result))
}

// ListPayments 登录用户的支付记录列表
func (h *Handler) ListPayments(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var query PaymentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(query.Status),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, payments, handlershared.BuildPagination(page, pageSize, total))
}

// GetPaymentByPaymentNo 按支付单号查询支付记录
func (h *Handler) GetPaymentByPaymentNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	payment, err := h.PaymentService.GetPayment(c.Param("payment_no"))
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			respondError(c, response.CodeNotFound, "error.payment_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if payment.UserID != uid {
		respondError(c, response.CodeNotFound, "error.payment_not_found", nil)
		return
	}
	response.Success(c, payment)
}

// respondCreatePaymentError 校验失败时附带具体的校验错误列表。
func (h *Handler) respondCreatePaymentError(c *gin.Context, result *service.CreatePaymentResult, err error) {
	if errors.Is(err, service.ErrPaymentInvalid) && result != nil {
		msg := i18n.T(i18n.ResolveLocale(c), "error.payment_invalid")
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{
			"errors": result.Validation.Errors,
		})
		return
	}
	respondPaymentCreateError(c, err)
}

func buildPaymentResponse(result *service.CreatePaymentResult) gin.H {
	resp := gin.H{}
	if result == nil {
		return resp
	}
	if result.Payment != nil {
		resp["payment_no"] = result.Payment.PaymentNo
		resp["status"] = result.Payment.Status
		resp["gateway_code"] = result.Payment.GatewayCode
		resp["currency"] = result.Payment.Currency
		resp["amount"] = result.Payment.Amount
	}
	if result.Outcome != nil {
		resp["outcome"] = gin.H{
			"kind":         result.Outcome.Kind,
			"redirect_url": result.Outcome.RedirectURL,
			"qr_code":      result.Outcome.QRCode,
			"reference":    result.Outcome.Reference,
		}
	}
	return resp
}
