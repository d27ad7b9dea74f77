package service

import (
	"math"
	"strings"
)

// PaymentRequest 客户端支付请求
type PaymentRequest struct {
	QuoteIDs     []string `json:"quote_ids"`
	Currency     string   `json:"currency"`
	Amount       float64  `json:"amount"`
	Gateway      string   `json:"gateway"`
	SuccessURL   string   `json:"success_url"`
	CancelURL    string   `json:"cancel_url"`
	Guest        bool     `json:"guest"`
	GuestEmail   string   `json:"guest_email"`
	GuestName    string   `json:"guest_name"`
	GuestCountry string   `json:"guest_country"`
}

// ValidationResult 校验结果
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidatePaymentRequest 校验支付请求。规则全部执行，错误累积返回；
// 无副作用。available 为 nil 时跳过可用性校验。
func ValidatePaymentRequest(req *PaymentRequest, available []string) ValidationResult {
	if req == nil {
		return ValidationResult{
			IsValid: false,
			Errors:  []string{"Payment request is required."},
		}
	}

	var errs []string

	if len(req.QuoteIDs) == 0 {
		errs = append(errs, "At least one quote is required.")
	}
	if strings.TrimSpace(req.Currency) == "" {
		errs = append(errs, "Currency is required.")
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		errs = append(errs, "A valid amount greater than zero is required.")
	}
	gateway := strings.ToLower(strings.TrimSpace(req.Gateway))
	if gateway == "" {
		errs = append(errs, "Payment gateway is required.")
	}
	if strings.TrimSpace(req.SuccessURL) == "" {
		errs = append(errs, "Success URL is required.")
	}
	if strings.TrimSpace(req.CancelURL) == "" {
		errs = append(errs, "Cancel URL is required.")
	}
	if gateway != "" && available != nil {
		if _, ok := toSet(available)[gateway]; !ok {
			errs = append(errs, "Selected payment gateway is not available.")
		}
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
