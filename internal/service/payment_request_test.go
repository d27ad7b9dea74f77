package service

import (
	"math"
	"testing"
)

func TestValidatePaymentRequestNil(t *testing.T) {
	result := ValidatePaymentRequest(nil, nil)
	if result.IsValid {
		t.Fatalf("expected invalid result for nil request")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Payment request is required." {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestValidatePaymentRequestAccumulatesErrors(t *testing.T) {
	result := ValidatePaymentRequest(&PaymentRequest{}, nil)
	if result.IsValid {
		t.Fatalf("expected invalid result")
	}
	// 空请求每条规则都应报错：报价单、币种、金额、网关、成功/取消地址
	if len(result.Errors) != 6 {
		t.Fatalf("expected 6 errors, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestValidatePaymentRequestAmount(t *testing.T) {
	base := PaymentRequest{
		QuoteIDs:   []string{"Q1"},
		Currency:   "USD",
		Gateway:    "stripe",
		SuccessURL: "https://example.com/ok",
		CancelURL:  "https://example.com/cancel",
	}

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		req := base
		req.Amount = amount
		result := ValidatePaymentRequest(&req, nil)
		if result.IsValid {
			t.Fatalf("expected invalid result for amount %v", amount)
		}
		if len(result.Errors) != 1 || result.Errors[0] != "A valid amount greater than zero is required." {
			t.Fatalf("unexpected errors for amount %v: %v", amount, result.Errors)
		}
	}
}

func TestValidatePaymentRequestGatewayAvailability(t *testing.T) {
	req := PaymentRequest{
		QuoteIDs:   []string{"Q1"},
		Currency:   "USD",
		Amount:     42.50,
		Gateway:    "KHALTI",
		SuccessURL: "https://example.com/ok",
		CancelURL:  "https://example.com/cancel",
	}

	// available 为 nil 时跳过可用性校验
	if result := ValidatePaymentRequest(&req, nil); !result.IsValid {
		t.Fatalf("expected valid result without availability, got %v", result.Errors)
	}
	// 网关代码大小写不敏感
	if result := ValidatePaymentRequest(&req, []string{"khalti"}); !result.IsValid {
		t.Fatalf("expected valid result with khalti available, got %v", result.Errors)
	}
	result := ValidatePaymentRequest(&req, []string{"stripe"})
	if result.IsValid {
		t.Fatalf("expected invalid result for unavailable gateway")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Selected payment gateway is not available." {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}
