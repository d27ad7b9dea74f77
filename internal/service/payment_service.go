package service

import (
	"context"
	"strings"
	"time"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/payment/backend"
	"github.com/himalbox/internal/queue"
	"github.com/himalbox/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService 支付服务：校验请求、调用云函数建单、记录支付并触发通知。
type PaymentService struct {
	methodSvc   *MethodService
	catalogSvc  *CatalogService
	quoteRepo   repository.QuoteRepository
	paymentRepo repository.PaymentRepository
	queueClient *queue.Client
	backendCfg  *backend.Config
}

// NewPaymentService 创建支付服务
func NewPaymentService(methodSvc *MethodService, catalogSvc *CatalogService, quoteRepo repository.QuoteRepository, paymentRepo repository.PaymentRepository, queueClient *queue.Client, backendCfg *backend.Config) *PaymentService {
	return &PaymentService{
		methodSvc:   methodSvc,
		catalogSvc:  catalogSvc,
		quoteRepo:   quoteRepo,
		paymentRepo: paymentRepo,
		queueClient: queueClient,
		backendCfg:  backendCfg,
	}
}

// CreatePaymentInput 创建支付输入
type CreatePaymentInput struct {
	Request     *PaymentRequest
	User        *models.User // 已登录用户；游客为 nil
	BearerToken string       // 登录用户的原始令牌，透传给云函数
	Context     context.Context
}

// CreatePaymentResult 创建支付结果
type CreatePaymentResult struct {
	Validation ValidationResult
	Payment    *models.Payment
	Outcome    *backend.Outcome
}

// CreatePayment 创建支付。
// 流程：解析可用网关 → 校验请求 → 服务端重算金额 → 云函数建单 →
// 落支付记录、失效目录缓存并推送状态通知。
func (s *PaymentService) CreatePayment(input CreatePaymentInput) (*CreatePaymentResult, error) {
	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}
	req := input.Request

	country := ""
	if input.User != nil {
		country = input.User.CountryCode
	} else if req != nil {
		country = req.GuestCountry
	}
	currency := ""
	if req != nil {
		currency = req.Currency
	}
	availability := s.methodSvc.ResolveAvailable(ctx, AvailabilityInput{
		Currency: currency,
		Country:  country,
		User:     input.User,
	})

	validation := ValidatePaymentRequest(req, availability.Codes)
	if !validation.IsValid {
		return &CreatePaymentResult{Validation: validation}, ErrPaymentInvalid
	}

	quotes, err := s.quoteRepo.ListByQuoteNos(req.QuoteIDs)
	if err != nil {
		return nil, err
	}
	if len(quotes) != len(req.QuoteIDs) {
		return nil, ErrQuoteNotFound
	}
	total := decimal.Zero
	for i := range quotes {
		if !quotes[i].IsPayable() {
			return nil, ErrQuoteNotPayable
		}
		total = total.Add(quotes[i].Amount.Decimal)
	}
	requested := decimal.NewFromFloat(req.Amount).Round(2)
	if !total.Round(2).Equal(requested) {
		// 金额以服务端重算为准，客户端金额只做参考
		logger.Warnw("payment_amount_recomputed",
			"requested", requested.StringFixed(2),
			"computed", total.StringFixed(2),
		)
	}
	amount := models.NewMoneyFromDecimal(total)

	userID := uint(0)
	guestEmail := strings.TrimSpace(req.GuestEmail)
	if input.User != nil {
		userID = input.User.ID
		guestEmail = ""
	}
	payment := &models.Payment{
		PaymentNo:   uuid.NewString(),
		UserID:      userID,
		GuestEmail:  guestEmail,
		QuoteIDs:    models.StringArray(req.QuoteIDs),
		GatewayCode: strings.ToLower(strings.TrimSpace(req.Gateway)),
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Amount:      amount,
		Status:      constants.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	log := logger.SW(
		"payment_no", payment.PaymentNo,
		"gateway_code", payment.GatewayCode,
		"currency", payment.Currency,
		"amount", payment.Amount.String(),
	)

	outcome, err := backend.CreatePayment(ctx, s.backendCfg, backend.CreateInput{
		GatewayCode: payment.GatewayCode,
		QuoteIDs:    req.QuoteIDs,
		Currency:    payment.Currency,
		Amount:      payment.Amount.String(),
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
		Reference:   payment.PaymentNo,
		Guest:       input.User == nil,
		BearerToken: input.BearerToken,
		GuestEmail:  req.GuestEmail,
		GuestName:   req.GuestName,
	})
	if err != nil {
		payment.Status = constants.PaymentStatusFailed
		payment.FailReason = err.Error()
		if updateErr := s.paymentRepo.Update(payment); updateErr != nil {
			log.Errorw("payment_fail_update_failed", "error", updateErr)
		}
		log.Errorw("payment_create_failed", "error", err)
		return &CreatePaymentResult{Validation: validation, Payment: payment}, ErrPaymentFailed
	}

	payment.Status = constants.PaymentStatusProcessing
	payment.OutcomeKind = outcome.Kind
	payment.Reference = outcome.Reference
	if err := s.paymentRepo.Update(payment); err != nil {
		log.Errorw("payment_outcome_update_failed", "error", err)
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		quoteRepo := s.quoteRepo.WithTx(tx)
		for i := range quotes {
			if quotes[i].Status == constants.QuoteStatusAwaitingPayment {
				continue
			}
			quotes[i].Status = constants.QuoteStatusAwaitingPayment
			quotes[i].UpdatedAt = now
			if err := quoteRepo.Update(&quotes[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Errorw("payment_quote_status_update_failed", "error", err)
	}

	// 建单成功后目录缓存即刻失效，下一次可用性解析走数据库
	s.catalogSvc.InvalidateCatalog(ctx)

	if err := s.queueClient.EnqueuePaymentStatusNotify(queue.PaymentStatusNotifyPayload{
		PaymentNo: payment.PaymentNo,
		UserID:    payment.UserID,
		Status:    payment.Status,
	}); err != nil {
		log.Warnw("payment_notify_enqueue_failed", "error", err)
	}

	log.Infow("payment_create_success", "outcome_kind", outcome.Kind)
	return &CreatePaymentResult{
		Validation: validation,
		Payment:    payment,
		Outcome:    outcome,
	}, nil
}

// GetPayment 按支付单号查询支付记录
func (s *PaymentService) GetPayment(paymentNo string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByPaymentNo(strings.TrimSpace(paymentNo))
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListPayments 支付记录列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}
