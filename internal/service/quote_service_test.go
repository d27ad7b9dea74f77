package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupQuoteServiceTest(t *testing.T) (*QuoteService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:quote_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Quote{}, &models.QuoteItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewQuoteService(repository.NewQuoteRepository(db)), db
}

func TestCreateQuoteRequiresOwner(t *testing.T) {
	svc, _ := setupQuoteServiceTest(t)
	_, err := svc.CreateQuote(CreateQuoteInput{Currency: "USD"})
	if !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound for ownerless quote, got %v", err)
	}
}

func TestCreateQuoteNormalizesInput(t *testing.T) {
	svc, _ := setupQuoteServiceTest(t)
	quote, err := svc.CreateQuote(CreateQuoteInput{
		GuestEmail:  " guest@example.com ",
		DestCountry: "np",
		Currency:    "usd",
		Items: []QuoteItemInput{
			{ItemName: " Sneakers ", Quantity: 0, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(80))},
		},
	})
	if err != nil {
		t.Fatalf("create quote failed: %v", err)
	}
	if quote.QuoteNo == "" {
		t.Fatalf("expected generated quote number")
	}
	if quote.DestCountry != "NP" || quote.Currency != "USD" {
		t.Fatalf("expected normalized country/currency, got %s/%s", quote.DestCountry, quote.Currency)
	}
	if quote.Status != constants.QuoteStatusDraft {
		t.Fatalf("expected draft status, got %s", quote.Status)
	}
	if len(quote.Items) != 1 || quote.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %+v", quote.Items)
	}
}

func TestSubmitQuotationTransitions(t *testing.T) {
	svc, _ := setupQuoteServiceTest(t)
	quote, err := svc.CreateQuote(CreateQuoteInput{UserID: 1, Currency: "USD"})
	if err != nil {
		t.Fatalf("create quote failed: %v", err)
	}

	amount := models.NewMoneyFromDecimal(decimal.NewFromFloat(129.90))
	quoted, err := svc.SubmitQuotation(quote.QuoteNo, amount)
	if err != nil {
		t.Fatalf("submit quotation failed: %v", err)
	}
	if quoted.Status != constants.QuoteStatusQuoted {
		t.Fatalf("expected quoted status, got %s", quoted.Status)
	}
	if quoted.Amount.String() != "129.90" {
		t.Fatalf("unexpected amount: %s", quoted.Amount.String())
	}
	if quoted.QuotedAt == nil {
		t.Fatalf("expected quoted_at to be set")
	}

	// 已取消的报价单不可再报价
	if _, err := svc.CancelQuote(quote.QuoteNo); err != nil {
		t.Fatalf("cancel quote failed: %v", err)
	}
	if _, err := svc.SubmitQuotation(quote.QuoteNo, amount); !errors.Is(err, ErrQuoteNotPayable) {
		t.Fatalf("expected ErrQuoteNotPayable for canceled quote, got %v", err)
	}
}

func TestCancelQuotePaidRejected(t *testing.T) {
	svc, db := setupQuoteServiceTest(t)
	quote, err := svc.CreateQuote(CreateQuoteInput{UserID: 1, Currency: "USD"})
	if err != nil {
		t.Fatalf("create quote failed: %v", err)
	}
	if err := db.Model(&models.Quote{}).Where("quote_no = ?", quote.QuoteNo).
		Update("status", constants.QuoteStatusPaid).Error; err != nil {
		t.Fatalf("mark quote paid failed: %v", err)
	}
	if _, err := svc.CancelQuote(quote.QuoteNo); !errors.Is(err, ErrQuoteNotPayable) {
		t.Fatalf("expected ErrQuoteNotPayable for paid quote, got %v", err)
	}
}

func TestBuildPaymentLink(t *testing.T) {
	svc, _ := setupQuoteServiceTest(t)

	var quoteNos []string
	for _, amount := range []float64{40.25, 59.75} {
		quote, err := svc.CreateQuote(CreateQuoteInput{UserID: 1, Currency: "USD"})
		if err != nil {
			t.Fatalf("create quote failed: %v", err)
		}
		if _, err := svc.SubmitQuotation(quote.QuoteNo, models.NewMoneyFromDecimal(decimal.NewFromFloat(amount))); err != nil {
			t.Fatalf("submit quotation failed: %v", err)
		}
		quoteNos = append(quoteNos, quote.QuoteNo)
	}

	link, err := svc.BuildPaymentLink(quoteNos)
	if err != nil {
		t.Fatalf("build payment link failed: %v", err)
	}
	if link.Currency != "USD" {
		t.Fatalf("unexpected currency: %s", link.Currency)
	}
	if link.Amount.String() != "100.00" {
		t.Fatalf("expected server-side total 100.00, got %s", link.Amount.String())
	}
	if len(link.QuoteNos) != 2 {
		t.Fatalf("expected 2 quote numbers, got %v", link.QuoteNos)
	}
}

func TestBuildPaymentLinkCurrencyMismatch(t *testing.T) {
	svc, _ := setupQuoteServiceTest(t)

	var quoteNos []string
	for _, currency := range []string{"USD", "NPR"} {
		quote, err := svc.CreateQuote(CreateQuoteInput{UserID: 1, Currency: currency})
		if err != nil {
			t.Fatalf("create quote failed: %v", err)
		}
		if _, err := svc.SubmitQuotation(quote.QuoteNo, models.NewMoneyFromDecimal(decimal.NewFromInt(10))); err != nil {
			t.Fatalf("submit quotation failed: %v", err)
		}
		quoteNos = append(quoteNos, quote.QuoteNo)
	}

	if _, err := svc.BuildPaymentLink(quoteNos); !errors.Is(err, ErrQuoteNotPayable) {
		t.Fatalf("expected ErrQuoteNotPayable for mixed currencies, got %v", err)
	}
}

func TestBuildPaymentLinkMissingQuote(t *testing.T) {
	svc, _ := setupQuoteServiceTest(t)
	if _, err := svc.BuildPaymentLink([]string{"Q-MISSING"}); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}
	if _, err := svc.BuildPaymentLink(nil); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound for empty list, got %v", err)
	}
}

func TestBuildPaymentLinkDraftNotPayable(t *testing.T) {
	svc, _ := setupQuoteServiceTest(t)
	quote, err := svc.CreateQuote(CreateQuoteInput{UserID: 1, Currency: "USD"})
	if err != nil {
		t.Fatalf("create quote failed: %v", err)
	}
	if _, err := svc.BuildPaymentLink([]string{quote.QuoteNo}); !errors.Is(err, ErrQuoteNotPayable) {
		t.Fatalf("expected ErrQuoteNotPayable for draft quote, got %v", err)
	}
}
