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

// QuoteListQuery 报价单列表查询参数
type QuoteListQuery struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	Status      string `form:"status"`
	DestCountry string `form:"dest_country"`
}

// SubmitQuotationRequest 管理端报价请求
type SubmitQuotationRequest struct {
	Amount models.Money `json:"amount" binding:"required"`
}

// ProofListQuery 支付凭证列表查询参数
type ProofListQuery struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	Status      string `form:"status"`
	GatewayCode string `form:"gateway_code"`
}

// ReviewProofRequest 凭证审核请求
type ReviewProofRequest struct {
	Approve    bool   `json:"approve"`
	ReviewNote string `json:"review_note"`
}

// ListQuotes 报价单列表
func (h *Handler) ListQuotes(c *gin.Context) {
	var query QuoteListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	quotes, total, err := h.QuoteService.ListQuotes(repository.QuoteListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(query.Status),
		DestCountry: strings.TrimSpace(query.DestCountry),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, quotes, handlershared.BuildPagination(page, pageSize, total))
}

// SubmitQuotation 管理端对报价请求出价
func (h *Handler) SubmitQuotation(c *gin.Context) {
	var req SubmitQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	quote, err := h.QuoteService.SubmitQuotation(c.Param("quote_no"), req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondError(c, response.CodeNotFound, "error.quote_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrQuoteNotPayable) {
			respondError(c, response.CodeBadRequest, "error.quote_not_payable", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, quote)
}

// ListProofs 支付凭证审核队列
func (h *Handler) ListProofs(c *gin.Context) {
	var query ProofListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	proofs, total, err := h.ProofService.ListProofs(repository.ProofListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(query.Status),
		GatewayCode: strings.TrimSpace(query.GatewayCode),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, proofs, handlershared.BuildPagination(page, pageSize, total))
}

// ReviewProof 审核支付凭证
func (h *Handler) ReviewProof(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req ReviewProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	proof, err := h.ProofService.ReviewProof(service.ReviewProofInput{
		ProofID:    id,
		Approve:    req.Approve,
		ReviewNote: req.ReviewNote,
		ReviewedBy: getAdminUsername(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrProofNotFound) {
			respondError(c, response.CodeNotFound, "error.proof_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrProofAlreadyReviewed) {
			respondError(c, response.CodeBadRequest, "error.proof_already_reviewed", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, proof)
}
