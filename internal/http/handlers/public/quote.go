package public

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

// QuoteItemRequest 报价条目请求
type QuoteItemRequest struct {
	ItemName  string       `json:"item_name" binding:"required"`
	ItemURL   string       `json:"item_url"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// CreateQuoteRequest 创建报价请求
type CreateQuoteRequest struct {
	DestCountry string             `json:"dest_country" binding:"required"`
	Currency    string             `json:"currency" binding:"required"`
	WeightKg    models.Money       `json:"weight_kg"`
	Note        string             `json:"note"`
	GuestEmail  string             `json:"guest_email"`
	Items       []QuoteItemRequest `json:"items" binding:"required"`
}

// QuoteListQuery 报价单列表查询参数
type QuoteListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

// PaymentLinkRequest 聚合支付链接请求
type PaymentLinkRequest struct {
	QuoteNos []string `json:"quote_nos" binding:"required"`
}

// CreateQuote 登录用户创建报价请求
func (h *Handler) CreateQuote(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.createQuote(c, uid, "")
}

// CreateGuestQuote 游客创建报价请求
func (h *Handler) CreateGuestQuote(c *gin.Context) {
	h.createQuote(c, 0, "required")
}

func (h *Handler) createQuote(c *gin.Context, uid uint, guestEmailMode string) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	if guestEmailMode == "required" && strings.TrimSpace(req.GuestEmail) == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	items := make([]service.QuoteItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.QuoteItemInput{
			ItemName:  item.ItemName,
			ItemURL:   item.ItemURL,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	input := service.CreateQuoteInput{
		UserID:      uid,
		DestCountry: req.DestCountry,
		Currency:    req.Currency,
		WeightKg:    req.WeightKg,
		Note:        req.Note,
		Items:       items,
	}
	if uid == 0 {
		input.GuestEmail = req.GuestEmail
	}

	quote, err := h.QuoteService.CreateQuote(input)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	response.Success(c, quote)
}

// ListQuotes 登录用户的报价单列表
func (h *Handler) ListQuotes(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var query QuoteListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	quotes, total, err := h.QuoteService.ListQuotes(repository.QuoteListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(query.Status),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, quotes, handlershared.BuildPagination(page, pageSize, total))
}

// GetQuote 登录用户按单号查询报价单
func (h *Handler) GetQuote(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	quote, ok := h.fetchOwnedQuote(c, uid, c.Param("quote_no"))
	if !ok {
		return
	}
	response.Success(c, quote)
}

// GetGuestQuoteByQuoteNo 游客按单号加邮箱查询报价单
func (h *Handler) GetGuestQuoteByQuoteNo(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	quote, err := h.QuoteService.GetQuote(c.Param("quote_no"))
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	if quote.UserID != 0 || !strings.EqualFold(quote.GuestEmail, email) {
		respondError(c, response.CodeNotFound, "error.quote_not_found", nil)
		return
	}
	response.Success(c, quote)
}

// CancelQuote 登录用户取消报价单
func (h *Handler) CancelQuote(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if _, ok := h.fetchOwnedQuote(c, uid, c.Param("quote_no")); !ok {
		return
	}
	quote, err := h.QuoteService.CancelQuote(c.Param("quote_no"))
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	response.Success(c, quote)
}

// BuildPaymentLink 把多张可支付报价单聚合为一次支付
func (h *Handler) BuildPaymentLink(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request_body", err)
		return
	}
	for _, quoteNo := range req.QuoteNos {
		if _, ok := h.fetchOwnedQuote(c, uid, quoteNo); !ok {
			return
		}
	}

	link, err := h.QuoteService.BuildPaymentLink(req.QuoteNos)
	if err != nil {
		respondQuoteError(c, err)
		return
	}
	response.Success(c, link)
}

// fetchOwnedQuote 取属于当前用户的报价单，归属不符按不存在处理。
func (h *Handler) fetchOwnedQuote(c *gin.Context, uid uint, quoteNo string) (*models.Quote, bool) {
	quote, err := h.QuoteService.GetQuote(quoteNo)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			respondError(c, response.CodeNotFound, "error.quote_not_found", nil)
			return nil, false
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return nil, false
	}
	if quote.UserID != uid {
		respondError(c, response.CodeNotFound, "error.quote_not_found", nil)
		return nil, false
	}
	return quote, true
}
