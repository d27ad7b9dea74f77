package service

import (
	"fmt"
	"strings"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/models"

	"github.com/shopspring/decimal"
)

// MethodDisplay 支付方式展示信息
type MethodDisplay struct {
	Code           string `json:"code"`            // 网关代码
	Label          string `json:"label"`           // 展示名称
	Description    string `json:"description"`     // 描述文案
	IconKey        string `json:"icon_key"`        // 图标键
	MobileOnly     bool   `json:"mobile_only"`     // 仅移动端
	RequiresQR     bool   `json:"requires_qr"`     // 需要扫码
	ProcessingTime string `json:"processing_time"` // 到账时效文案
	FeeText        string `json:"fee_text"`        // 费率文案
}

// DefaultDisplayTable 内置展示表
func DefaultDisplayTable() map[string]MethodDisplay {
	return map[string]MethodDisplay{
		constants.GatewayStripe: {
			Code:           constants.GatewayStripe,
			Label:          "Credit / Debit Card",
			Description:    "Visa, Mastercard, AmEx via Stripe",
			IconKey:        "card",
			ProcessingTime: "Instant",
		},
		constants.GatewayPaypal: {
			Code:           constants.GatewayPaypal,
			Label:          "PayPal",
			Description:    "Pay with your PayPal balance or linked card",
			IconKey:        "paypal",
			ProcessingTime: "Instant",
		},
		constants.GatewayEsewa: {
			Code:           constants.GatewayEsewa,
			Label:          "eSewa",
			Description:    "Nepal's digital wallet",
			IconKey:        "esewa",
			MobileOnly:     true,
			RequiresQR:     true,
			ProcessingTime: "Instant",
		},
		constants.GatewayKhalti: {
			Code:           constants.GatewayKhalti,
			Label:          "Khalti",
			Description:    "Khalti digital wallet",
			IconKey:        "khalti",
			MobileOnly:     true,
			ProcessingTime: "Instant",
		},
		constants.GatewayFonepay: {
			Code:           constants.GatewayFonepay,
			Label:          "Fonepay",
			Description:    "Scan to pay with any Nepali mobile banking app",
			IconKey:        "fonepay",
			RequiresQR:     true,
			ProcessingTime: "Instant",
		},
		constants.GatewayImepay: {
			Code:           constants.GatewayImepay,
			Label:          "IME Pay",
			Description:    "IME Pay mobile wallet",
			IconKey:        "imepay",
			MobileOnly:     true,
			ProcessingTime: "Instant",
		},
		constants.GatewayBankTransfer: {
			Code:           constants.GatewayBankTransfer,
			Label:          "Bank Transfer",
			Description:    "Transfer to our bank account and upload the receipt",
			IconKey:        "bank",
			ProcessingTime: "1-2 business days",
		},
		constants.GatewayCOD: {
			Code:           constants.GatewayCOD,
			Label:          "Cash on Delivery",
			Description:    "Pay in cash when your package arrives",
			IconKey:        "cash",
			ProcessingTime: "On delivery",
		},
	}
}

// DisplayFor 计算网关的展示信息；未知代码退化为通用占位，不报错。
func (s *MethodService) DisplayFor(gateway *models.PaymentGateway) MethodDisplay {
	if gateway == nil {
		return placeholderDisplay("")
	}
	code := strings.ToLower(strings.TrimSpace(gateway.Code))
	display, ok := s.displayTable[code]
	if !ok {
		display = placeholderDisplay(code)
		if name := strings.TrimSpace(gateway.Name); name != "" {
			display.Label = name
		}
	}
	display.FeeText = formatFee(gateway.PercentFee, gateway.FixedFee)
	return display
}

// DisplayList 按可用性结果批量计算展示信息
func (s *MethodService) DisplayList(result AvailabilityResult) []MethodDisplay {
	displays := make([]MethodDisplay, 0, len(result.Gateways))
	for i := range result.Gateways {
		displays = append(displays, s.DisplayFor(&result.Gateways[i]))
	}
	return displays
}

func placeholderDisplay(code string) MethodDisplay {
	label := "Other payment method"
	if code != "" {
		label = strings.ToUpper(code[:1]) + code[1:]
	}
	return MethodDisplay{
		Code:           code,
		Label:          label,
		Description:    "Additional payment option",
		IconKey:        "payment",
		ProcessingTime: "Varies",
	}
}

func formatFee(percentFee, fixedFee models.Money) string {
	hasPercent := percentFee.Decimal.GreaterThan(decimal.Zero)
	hasFixed := fixedFee.Decimal.GreaterThan(decimal.Zero)
	switch {
	case hasPercent && hasFixed:
		return fmt.Sprintf("%s%% + %s", percentFee.Decimal.String(), fixedFee.String())
	case hasPercent:
		return fmt.Sprintf("%s%%", percentFee.Decimal.String())
	case hasFixed:
		return fixedFee.String()
	default:
		return "No fee"
	}
}
