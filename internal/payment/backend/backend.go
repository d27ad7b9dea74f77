package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("backend config invalid")
	ErrRequestFailed   = errors.New("backend request failed")
	ErrResponseInvalid = errors.New("backend response invalid")
)

const (
	defaultTimeout        = 12 * time.Second
	defaultCreateFunction = "create-payment"
	defaultStripeFunction = "create-stripe-checkout"
)

// Outcome 形态常量
const (
	OutcomeRedirect     = "redirect"     // 跳转支付页
	OutcomeQR           = "qr"           // 展示二维码
	OutcomeConfirmation = "confirmation" // 已创建交易引用
	OutcomeProcessing   = "processing"   // 受理中，等待异步结果
)

// Config 云函数后端配置。
type Config struct {
	BaseURL        string   `json:"base_url"`
	AnonKey        string   `json:"anon_key"`
	TimeoutMS      int      `json:"timeout_ms"`
	CreateFunction string   `json:"create_function"`
	StripeFunction string   `json:"stripe_function"`
	StripeGateways []string `json:"stripe_gateways"`
}

// CreateInput 创建支付输入。
type CreateInput struct {
	GatewayCode string
	QuoteIDs    []string
	Currency    string
	Amount      string
	SuccessURL  string
	CancelURL   string
	Reference   string
	Guest       bool
	BearerToken string
	GuestEmail  string
	GuestName   string
}

// Outcome 创建支付返回（按形态区分的标签联合）。
type Outcome struct {
	Kind        string
	RedirectURL string
	QRCode      string
	Reference   string
	Raw         map[string]interface{}
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return fmt.Errorf("%w: base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// CreatePayment 调用云函数创建支付。
// 游客请求使用匿名公钥，登录请求透传调用方 Bearer 令牌；两者皆缺直接失败。
// 单次往返，不做重试和幂等键。
func CreatePayment(ctx context.Context, cfg *Config, input CreateInput) (*Outcome, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	gatewayCode := strings.TrimSpace(input.GatewayCode)
	if gatewayCode == "" {
		return nil, fmt.Errorf("%w: gateway_code is required", ErrConfigInvalid)
	}

	token := ""
	if input.Guest {
		token = strings.TrimSpace(cfg.AnonKey)
		if token == "" {
			return nil, fmt.Errorf("%w: anon_key is required for guest payment", ErrConfigInvalid)
		}
	} else {
		token = strings.TrimSpace(input.BearerToken)
		if token == "" {
			return nil, fmt.Errorf("%w: bearer token is required", ErrConfigInvalid)
		}
	}

	payload := map[string]interface{}{
		"gateway":    gatewayCode,
		"quoteIds":   input.QuoteIDs,
		"currency":   strings.ToUpper(strings.TrimSpace(input.Currency)),
		"amount":     strings.TrimSpace(input.Amount),
		"successUrl": strings.TrimSpace(input.SuccessURL),
		"cancelUrl":  strings.TrimSpace(input.CancelURL),
		"reference":  strings.TrimSpace(input.Reference),
	}
	if input.Guest {
		payload["guest"] = true
		if email := strings.TrimSpace(input.GuestEmail); email != "" {
			payload["guestEmail"] = email
		}
		if name := strings.TrimSpace(input.GuestName); name != "" {
			payload["guestName"] = name
		}
	}

	body, statusCode, err := doJSONRequest(ctx, cfg, functionPath(cfg, gatewayCode), token, payload)
	if err != nil {
		return nil, err
	}

	raw, decodeErr := decodeRawMap(body)
	if statusCode < 200 || statusCode >= 300 {
		if decodeErr == nil {
			if message := strings.TrimSpace(readString(raw, "error")); message != "" {
				return nil, fmt.Errorf("%w: %s", ErrRequestFailed, message)
			}
		}
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, statusCode)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	if message := strings.TrimSpace(readString(raw, "error")); message != "" {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, message)
	}
	return decodeOutcome(raw), nil
}

// IsStripeFamily 判断网关是否走 Stripe 专用函数。
func IsStripeFamily(cfg *Config, gatewayCode string) bool {
	code := strings.ToLower(strings.TrimSpace(gatewayCode))
	if cfg == nil || len(cfg.StripeGateways) == 0 {
		return code == "stripe"
	}
	for _, item := range cfg.StripeGateways {
		if strings.ToLower(strings.TrimSpace(item)) == code {
			return true
		}
	}
	return false
}

// decodeOutcome 按响应字段推断支付形态；字段探测只发生在这里。
func decodeOutcome(raw map[string]interface{}) *Outcome {
	outcome := &Outcome{Raw: raw}
	for _, key := range []string{"url", "stripeCheckoutUrl", "approval_url", "approvalUrl"} {
		if link := strings.TrimSpace(readString(raw, key)); link != "" {
			outcome.Kind = OutcomeRedirect
			outcome.RedirectURL = link
			return outcome
		}
	}
	if qr := strings.TrimSpace(readString(raw, "qrCode")); qr != "" {
		outcome.Kind = OutcomeQR
		outcome.QRCode = qr
		return outcome
	}
	for _, key := range []string{"transactionId", "order_id"} {
		if ref := strings.TrimSpace(readString(raw, key)); ref != "" {
			outcome.Kind = OutcomeConfirmation
			outcome.Reference = ref
			return outcome
		}
	}
	outcome.Kind = OutcomeProcessing
	return outcome
}

func functionPath(cfg *Config, gatewayCode string) string {
	name := strings.TrimSpace(cfg.CreateFunction)
	if name == "" {
		name = defaultCreateFunction
	}
	if IsStripeFamily(cfg, gatewayCode) {
		name = strings.TrimSpace(cfg.StripeFunction)
		if name == "" {
			name = defaultStripeFunction
		}
	}
	return "/" + strings.TrimLeft(name, "/")
}

func doJSONRequest(ctx context.Context, cfg *Config, path, token string, payload map[string]interface{}) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: marshal payload failed", ErrRequestFailed)
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return respBody, resp.StatusCode, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil || strings.TrimSpace(key) == "" {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%.0f", typed))
	default:
		return ""
	}
}
