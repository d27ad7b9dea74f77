package service

import (
	"strings"
	"time"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/queue"
	"github.com/himalbox/internal/repository"

	"gorm.io/gorm"
)

// ProofService 支付凭证服务：人工网关（银行转账/钱包）的凭证提交与审核。
type ProofService struct {
	proofRepo   repository.ProofRepository
	quoteRepo   repository.QuoteRepository
	queueClient *queue.Client
}

// NewProofService 创建支付凭证服务
func NewProofService(proofRepo repository.ProofRepository, quoteRepo repository.QuoteRepository, queueClient *queue.Client) *ProofService {
	return &ProofService{
		proofRepo:   proofRepo,
		quoteRepo:   quoteRepo,
		queueClient: queueClient,
	}
}

// SubmitProofInput 提交凭证输入
type SubmitProofInput struct {
	UserID      uint
	GuestEmail  string
	QuoteNos    []string
	GatewayCode string
	Currency    string
	Amount      models.Money
	FileURL     string
	Note        string
}

// SubmitProof 提交支付凭证
func (s *ProofService) SubmitProof(input SubmitProofInput) (*models.PaymentProof, error) {
	if len(input.QuoteNos) == 0 {
		return nil, ErrQuoteNotFound
	}
	if strings.TrimSpace(input.FileURL) == "" {
		return nil, ErrProofNotFound
	}
	quotes, err := s.quoteRepo.ListByQuoteNos(input.QuoteNos)
	if err != nil {
		return nil, err
	}
	if len(quotes) != len(input.QuoteNos) {
		return nil, ErrQuoteNotFound
	}
	for i := range quotes {
		if !quotes[i].IsPayable() {
			return nil, ErrQuoteNotPayable
		}
	}

	proof := &models.PaymentProof{
		UserID:      input.UserID,
		GuestEmail:  strings.TrimSpace(input.GuestEmail),
		QuoteIDs:    models.StringArray(input.QuoteNos),
		GatewayCode: strings.ToLower(strings.TrimSpace(input.GatewayCode)),
		Currency:    strings.ToUpper(strings.TrimSpace(input.Currency)),
		Amount:      input.Amount,
		FileURL:     strings.TrimSpace(input.FileURL),
		Note:        strings.TrimSpace(input.Note),
		Status:      constants.ProofStatusPending,
	}
	if err := s.proofRepo.Create(proof); err != nil {
		return nil, err
	}
	logger.Infow("payment_proof_submitted",
		"proof_id", proof.ID,
		"gateway_code", proof.GatewayCode,
		"amount", proof.Amount.String(),
	)
	return proof, nil
}

// ReviewProofInput 审核凭证输入
type ReviewProofInput struct {
	ProofID    uint
	Approve    bool
	ReviewNote string
	ReviewedBy string
}

// ReviewProof 审核支付凭证。
// 通过时在同一事务内将关联报价单置为已支付，随后推送审核结果通知。
func (s *ProofService) ReviewProof(input ReviewProofInput) (*models.PaymentProof, error) {
	proof, err := s.proofRepo.GetByID(input.ProofID)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		return nil, ErrProofNotFound
	}
	if proof.Status != constants.ProofStatusPending {
		return nil, ErrProofAlreadyReviewed
	}

	now := time.Now()
	status := constants.ProofStatusRejected
	if input.Approve {
		status = constants.ProofStatusVerified
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		proofRepo := s.proofRepo.WithTx(tx)
		proof.Status = status
		proof.ReviewNote = strings.TrimSpace(input.ReviewNote)
		proof.ReviewedBy = strings.TrimSpace(input.ReviewedBy)
		proof.ReviewedAt = &now
		if err := proofRepo.Update(proof); err != nil {
			return err
		}
		if !input.Approve {
			return nil
		}
		quoteRepo := s.quoteRepo.WithTx(tx)
		quotes, err := quoteRepo.ListByQuoteNos([]string(proof.QuoteIDs))
		if err != nil {
			return err
		}
		for i := range quotes {
			quotes[i].Status = constants.QuoteStatusPaid
			quotes[i].PaidAt = &now
			if err := quoteRepo.Update(&quotes[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueProofReviewNotify(queue.ProofReviewNotifyPayload{
		ProofID: proof.ID,
		UserID:  proof.UserID,
		Status:  proof.Status,
	}); err != nil {
		logger.Warnw("proof_review_notify_enqueue_failed", "error", err, "proof_id", proof.ID)
	}

	logger.Infow("payment_proof_reviewed",
		"proof_id", proof.ID,
		"status", proof.Status,
		"reviewed_by", proof.ReviewedBy,
	)
	return proof, nil
}

// GetProof 按 ID 获取支付凭证
func (s *ProofService) GetProof(id uint) (*models.PaymentProof, error) {
	proof, err := s.proofRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if proof == nil {
		return nil, ErrProofNotFound
	}
	return proof, nil
}

// ListProofs 支付凭证列表
func (s *ProofService) ListProofs(filter repository.ProofListFilter) ([]models.PaymentProof, int64, error) {
	return s.proofRepo.List(filter)
}
