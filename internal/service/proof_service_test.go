package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/queue"
	"github.com/himalbox/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProofServiceTest(t *testing.T) (*ProofService, *QuoteService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:proof_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Quote{}, &models.QuoteItem{}, &models.PaymentProof{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	// 审核走 models.DB 事务
	models.DB = db
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	quoteRepo := repository.NewQuoteRepository(db)
	proofSvc := NewProofService(repository.NewProofRepository(db), quoteRepo, queueClient)
	return proofSvc, NewQuoteService(quoteRepo), db
}

func newPayableQuote(t *testing.T, quoteSvc *QuoteService, amount float64) *models.Quote {
	t.Helper()
	quote, err := quoteSvc.CreateQuote(CreateQuoteInput{UserID: 7, Currency: "USD"})
	if err != nil {
		t.Fatalf("create quote failed: %v", err)
	}
	quoted, err := quoteSvc.SubmitQuotation(quote.QuoteNo, models.NewMoneyFromDecimal(decimal.NewFromFloat(amount)))
	if err != nil {
		t.Fatalf("submit quotation failed: %v", err)
	}
	return quoted
}

func TestSubmitProofRequiresPayableQuotes(t *testing.T) {
	proofSvc, quoteSvc, _ := setupProofServiceTest(t)

	_, err := proofSvc.SubmitProof(SubmitProofInput{
		UserID:   7,
		QuoteNos: []string{"Q-MISSING"},
		FileURL:  "https://files.example.com/slip.png",
	})
	if !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}

	draft, err := quoteSvc.CreateQuote(CreateQuoteInput{UserID: 7, Currency: "USD"})
	if err != nil {
		t.Fatalf("create quote failed: %v", err)
	}
	_, err = proofSvc.SubmitProof(SubmitProofInput{
		UserID:   7,
		QuoteNos: []string{draft.QuoteNo},
		FileURL:  "https://files.example.com/slip.png",
	})
	if !errors.Is(err, ErrQuoteNotPayable) {
		t.Fatalf("expected ErrQuoteNotPayable for draft quote, got %v", err)
	}
}

func TestSubmitProofRequiresFile(t *testing.T) {
	proofSvc, quoteSvc, _ := setupProofServiceTest(t)
	quote := newPayableQuote(t, quoteSvc, 50)

	_, err := proofSvc.SubmitProof(SubmitProofInput{
		UserID:   7,
		QuoteNos: []string{quote.QuoteNo},
		FileURL:  "   ",
	})
	if !errors.Is(err, ErrProofNotFound) {
		t.Fatalf("expected ErrProofNotFound for missing file, got %v", err)
	}
}

func TestReviewProofApproveMarksQuotesPaid(t *testing.T) {
	proofSvc, quoteSvc, _ := setupProofServiceTest(t)
	quote := newPayableQuote(t, quoteSvc, 75.50)

	proof, err := proofSvc.SubmitProof(SubmitProofInput{
		UserID:      7,
		QuoteNos:    []string{quote.QuoteNo},
		GatewayCode: "Bank_Transfer",
		Currency:    "usd",
		Amount:      models.NewMoneyFromDecimal(decimal.NewFromFloat(75.50)),
		FileURL:     "https://files.example.com/slip.png",
	})
	if err != nil {
		t.Fatalf("submit proof failed: %v", err)
	}
	if proof.Status != constants.ProofStatusPending {
		t.Fatalf("expected pending proof, got %s", proof.Status)
	}
	if proof.GatewayCode != "bank_transfer" || proof.Currency != "USD" {
		t.Fatalf("expected normalized gateway/currency, got %s/%s", proof.GatewayCode, proof.Currency)
	}

	reviewed, err := proofSvc.ReviewProof(ReviewProofInput{
		ProofID:    proof.ID,
		Approve:    true,
		ReviewedBy: "ops",
	})
	if err != nil {
		t.Fatalf("review proof failed: %v", err)
	}
	if reviewed.Status != constants.ProofStatusVerified {
		t.Fatalf("expected verified status, got %s", reviewed.Status)
	}
	if reviewed.ReviewedAt == nil || reviewed.ReviewedBy != "ops" {
		t.Fatalf("expected review metadata, got %+v", reviewed)
	}

	paid, err := quoteSvc.GetQuote(quote.QuoteNo)
	if err != nil {
		t.Fatalf("get quote failed: %v", err)
	}
	if paid.Status != constants.QuoteStatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected quote marked paid, got status %s", paid.Status)
	}
}

func TestReviewProofRejectKeepsQuotes(t *testing.T) {
	proofSvc, quoteSvc, _ := setupProofServiceTest(t)
	quote := newPayableQuote(t, quoteSvc, 30)

	proof, err := proofSvc.SubmitProof(SubmitProofInput{
		UserID:   7,
		QuoteNos: []string{quote.QuoteNo},
		Currency: "USD",
		FileURL:  "https://files.example.com/slip.png",
	})
	if err != nil {
		t.Fatalf("submit proof failed: %v", err)
	}

	reviewed, err := proofSvc.ReviewProof(ReviewProofInput{
		ProofID:    proof.ID,
		Approve:    false,
		ReviewNote: "amount mismatch",
		ReviewedBy: "ops",
	})
	if err != nil {
		t.Fatalf("review proof failed: %v", err)
	}
	if reviewed.Status != constants.ProofStatusRejected {
		t.Fatalf("expected rejected status, got %s", reviewed.Status)
	}

	kept, err := quoteSvc.GetQuote(quote.QuoteNo)
	if err != nil {
		t.Fatalf("get quote failed: %v", err)
	}
	if kept.Status != constants.QuoteStatusQuoted {
		t.Fatalf("expected quote unchanged, got status %s", kept.Status)
	}

	// 二次审核应被拒绝
	if _, err := proofSvc.ReviewProof(ReviewProofInput{ProofID: proof.ID, Approve: true}); !errors.Is(err, ErrProofAlreadyReviewed) {
		t.Fatalf("expected ErrProofAlreadyReviewed, got %v", err)
	}
}
