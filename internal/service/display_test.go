package service

import (
	"testing"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/models"

	"github.com/shopspring/decimal"
)

func TestDisplayForKnownGateway(t *testing.T) {
	svc := NewMethodService(nil, nil)
	gateway := &models.PaymentGateway{
		Code:       constants.GatewayEsewa,
		Name:       "eSewa NP",
		PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.5)),
		FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
	}

	display := svc.DisplayFor(gateway)
	if display.Label != "eSewa" {
		t.Fatalf("expected builtin label eSewa, got %q", display.Label)
	}
	if !display.MobileOnly || !display.RequiresQR {
		t.Fatalf("expected esewa to be mobile-only with QR, got %+v", display)
	}
	if display.FeeText != "1.5%" {
		t.Fatalf("unexpected fee text: %q", display.FeeText)
	}
}

func TestDisplayForUnknownGatewayPlaceholder(t *testing.T) {
	svc := NewMethodService(nil, nil)
	gateway := &models.PaymentGateway{
		Code: "newpay",
		Name: "NewPay",
	}

	display := svc.DisplayFor(gateway)
	if display.Code != "newpay" {
		t.Fatalf("unexpected code: %q", display.Code)
	}
	// 未知代码退化为占位并沿用网关名称
	if display.Label != "NewPay" {
		t.Fatalf("expected gateway name as label, got %q", display.Label)
	}
	if display.IconKey != "payment" {
		t.Fatalf("expected placeholder icon, got %q", display.IconKey)
	}
	if display.FeeText != "No fee" {
		t.Fatalf("unexpected fee text: %q", display.FeeText)
	}
}

func TestDisplayForNilGateway(t *testing.T) {
	svc := NewMethodService(nil, nil)
	display := svc.DisplayFor(nil)
	if display.Label != "Other payment method" {
		t.Fatalf("unexpected label for nil gateway: %q", display.Label)
	}
}

func TestDisplayFeeText(t *testing.T) {
	svc := NewMethodService(nil, nil)
	gateway := &models.PaymentGateway{
		Code:       constants.GatewayStripe,
		PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(2.9)),
		FixedFee:   models.NewMoneyFromDecimal(decimal.NewFromFloat(0.3)),
	}
	display := svc.DisplayFor(gateway)
	if display.FeeText != "2.9% + 0.30" {
		t.Fatalf("unexpected fee text: %q", display.FeeText)
	}

	gateway.PercentFee = models.NewMoneyFromDecimal(decimal.Zero)
	display = svc.DisplayFor(gateway)
	if display.FeeText != "0.30" {
		t.Fatalf("unexpected fixed-only fee text: %q", display.FeeText)
	}
}

func TestDisplayListFollowsAvailability(t *testing.T) {
	svc := NewMethodService(nil, nil)
	result := AvailabilityResult{
		Gateways: []models.PaymentGateway{
			{Code: constants.GatewayKhalti},
			{Code: constants.GatewayBankTransfer},
		},
		Codes: []string{constants.GatewayKhalti, constants.GatewayBankTransfer},
	}
	displays := svc.DisplayList(result)
	if len(displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(displays))
	}
	if displays[0].Code != constants.GatewayKhalti || displays[1].Code != constants.GatewayBankTransfer {
		t.Fatalf("display order mismatch: %+v", displays)
	}
}
