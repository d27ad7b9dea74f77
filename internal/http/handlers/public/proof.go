package public

import (
	"strings"

	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitProofRequest 提交支付凭证请求
type SubmitProofRequest struct {
	QuoteNos    []string     `json:"quote_nos" binding:"required"`
	GatewayCode string       `json:"gateway_code" binding:"required"`
	Currency    string       `json:"currency" binding:"required"`
	Amount      models.Money `json:"amount"`
	FileURL     string       `json:"file_url" binding:"required"`
	Note        string       `json:"note"`
	GuestEmail  string       `json:"guest_email"`
}

// SubmitProof 登录用户提交支付凭证
func (h *Handler) SubmitProof(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.submitProof(c, uid, "")
}

// SubmitGuestProof 游客提交支付凭证
func (h *Handler) SubmitGuestProof(c *gin.Context) {
	h.submitProof(c, 0, "required")
}

func (h *Handler) submitProof(c *gin.Context, uid uint, guestEmailMode string) {
	var req SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	if guestEmailMode == "required" && strings.TrimSpace(req.GuestEmail) == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	input := service.SubmitProofInput{
		UserID:      uid,
		QuoteNos:    req.QuoteNos,
		GatewayCode: req.GatewayCode,
		Currency:    req.Currency,
		Amount:      req.Amount,
		FileURL:     req.FileURL,
		Note:        req.Note,
	}
	if uid == 0 {
		input.GuestEmail = req.GuestEmail
	}

	proof, err := h.ProofService.SubmitProof(input)
	if err != nil {
		respondProofError(c, err)
		return
	}
	response.Success(c, proof)
}
