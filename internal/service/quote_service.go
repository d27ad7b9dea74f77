package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteService 报价单服务
type QuoteService struct {
	quoteRepo repository.QuoteRepository
}

// NewQuoteService 创建报价单服务
func NewQuoteService(quoteRepo repository.QuoteRepository) *QuoteService {
	return &QuoteService{quoteRepo: quoteRepo}
}

// QuoteItemInput 报价条目输入
type QuoteItemInput struct {
	ItemName  string
	ItemURL   string
	Quantity  int
	UnitPrice models.Money
}

// CreateQuoteInput 创建报价单输入
type CreateQuoteInput struct {
	UserID      uint
	GuestEmail  string
	DestCountry string
	Currency    string
	WeightKg    models.Money
	Note        string
	Items       []QuoteItemInput
}

// CreateQuote 创建报价请求（draft 状态，金额由管理端报价后写入）
func (s *QuoteService) CreateQuote(input CreateQuoteInput) (*models.Quote, error) {
	if input.UserID == 0 && strings.TrimSpace(input.GuestEmail) == "" {
		return nil, ErrQuoteNotFound
	}
	quote := &models.Quote{
		QuoteNo:     newQuoteNo(),
		UserID:      input.UserID,
		GuestEmail:  strings.TrimSpace(input.GuestEmail),
		DestCountry: strings.ToUpper(strings.TrimSpace(input.DestCountry)),
		Currency:    strings.ToUpper(strings.TrimSpace(input.Currency)),
		WeightKg:    input.WeightKg,
		Status:      constants.QuoteStatusDraft,
		Note:        strings.TrimSpace(input.Note),
	}
	for _, item := range input.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		quote.Items = append(quote.Items, models.QuoteItem{
			ItemName:  strings.TrimSpace(item.ItemName),
			ItemURL:   strings.TrimSpace(item.ItemURL),
			Quantity:  quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if err := s.quoteRepo.Create(quote); err != nil {
		return nil, err
	}
	logger.Infow("quote_created", "quote_no", quote.QuoteNo, "user_id", quote.UserID)
	return quote, nil
}

// SubmitQuotation 管理端报价：写入金额并置为 quoted
func (s *QuoteService) SubmitQuotation(quoteNo string, amount models.Money) (*models.Quote, error) {
	quote, err := s.GetQuote(quoteNo)
	if err != nil {
		return nil, err
	}
	if quote.Status != constants.QuoteStatusDraft && quote.Status != constants.QuoteStatusQuoted {
		return nil, ErrQuoteNotPayable
	}
	now := time.Now()
	quote.Amount = amount
	quote.Status = constants.QuoteStatusQuoted
	quote.QuotedAt = &now
	if err := s.quoteRepo.Update(quote); err != nil {
		return nil, err
	}
	logger.Infow("quote_quoted", "quote_no", quote.QuoteNo, "amount", amount.String())
	return quote, nil
}

// CancelQuote 取消报价单
func (s *QuoteService) CancelQuote(quoteNo string) (*models.Quote, error) {
	quote, err := s.GetQuote(quoteNo)
	if err != nil {
		return nil, err
	}
	if quote.Status == constants.QuoteStatusPaid {
		return nil, ErrQuoteNotPayable
	}
	quote.Status = constants.QuoteStatusCanceled
	if err := s.quoteRepo.Update(quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// GetQuote 按报价单号获取报价单
func (s *QuoteService) GetQuote(quoteNo string) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByQuoteNo(strings.TrimSpace(quoteNo))
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}
	return quote, nil
}

// ListQuotes 报价单列表
func (s *QuoteService) ListQuotes(filter repository.QuoteListFilter) ([]models.Quote, int64, error) {
	return s.quoteRepo.List(filter)
}

// PaymentLink 支付链接（一组可支付报价单的服务端汇总）
type PaymentLink struct {
	QuoteNos []string     `json:"quote_nos"`
	Currency string       `json:"currency"`
	Amount   models.Money `json:"amount"`
}

// BuildPaymentLink 汇总一组报价单生成支付链接，金额服务端重算。
// 要求所有报价单可支付且币种一致。
func (s *QuoteService) BuildPaymentLink(quoteNos []string) (*PaymentLink, error) {
	if len(quoteNos) == 0 {
		return nil, ErrQuoteNotFound
	}
	quotes, err := s.quoteRepo.ListByQuoteNos(quoteNos)
	if err != nil {
		return nil, err
	}
	if len(quotes) != len(quoteNos) {
		return nil, ErrQuoteNotFound
	}

	currency := ""
	total := decimal.Zero
	nos := make([]string, 0, len(quotes))
	for i := range quotes {
		if !quotes[i].IsPayable() {
			return nil, ErrQuoteNotPayable
		}
		if currency == "" {
			currency = quotes[i].Currency
		} else if currency != quotes[i].Currency {
			return nil, ErrQuoteNotPayable
		}
		total = total.Add(quotes[i].Amount.Decimal)
		nos = append(nos, quotes[i].QuoteNo)
	}
	return &PaymentLink{
		QuoteNos: nos,
		Currency: currency,
		Amount:   models.NewMoneyFromDecimal(total),
	}, nil
}

func newQuoteNo() string {
	return fmt.Sprintf("Q%s%s",
		time.Now().Format("20060102"),
		strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]),
	)
}
