package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBackendServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Config) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &Config{
		BaseURL:        server.URL,
		AnonKey:        "anon-key",
		CreateFunction: "create-payment",
		StripeFunction: "create-stripe-checkout",
		StripeGateways: []string{"stripe"},
	}
	return server, cfg
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for nil config, got %v", err)
	}
	if err := ValidateConfig(&Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for empty base url, got %v", err)
	}
	if err := ValidateConfig(&Config{BaseURL: "://bad"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for malformed base url, got %v", err)
	}
	if err := ValidateConfig(&Config{BaseURL: "https://functions.example.com"}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCreatePaymentGuestUsesAnonKey(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}
	_, cfg := newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example.com/x"})
	})

	outcome, err := CreatePayment(context.Background(), cfg, CreateInput{
		GatewayCode: "khalti",
		Currency:    "npr",
		Amount:      "100.00",
		Guest:       true,
		GuestEmail:  "guest@example.com",
		GuestName:   "Guest",
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if gotAuth != "Bearer anon-key" {
		t.Fatalf("expected anon key auth, got %q", gotAuth)
	}
	if gotPayload["guest"] != true || gotPayload["guestEmail"] != "guest@example.com" {
		t.Fatalf("unexpected guest payload: %v", gotPayload)
	}
	if gotPayload["currency"] != "NPR" {
		t.Fatalf("expected normalized currency, got %v", gotPayload["currency"])
	}
	if outcome.Kind != OutcomeRedirect || outcome.RedirectURL != "https://pay.example.com/x" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestCreatePaymentUserRequiresBearerToken(t *testing.T) {
	_, cfg := newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example.com/x"})
	})

	_, err := CreatePayment(context.Background(), cfg, CreateInput{
		GatewayCode: "khalti",
		Guest:       false,
	})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing bearer token, got %v", err)
	}

	var gotAuth string
	_, cfg = newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"transactionId": "txn_123"})
	})
	outcome, err := CreatePayment(context.Background(), cfg, CreateInput{
		GatewayCode: "khalti",
		BearerToken: "user-token",
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if gotAuth != "Bearer user-token" {
		t.Fatalf("expected user token auth, got %q", gotAuth)
	}
	if outcome.Kind != OutcomeConfirmation || outcome.Reference != "txn_123" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestCreatePaymentStripeFamilyRouting(t *testing.T) {
	var gotPath string
	_, cfg := newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]string{"stripeCheckoutUrl": "https://checkout.stripe.com/x"})
	})

	outcome, err := CreatePayment(context.Background(), cfg, CreateInput{
		GatewayCode: "stripe",
		Guest:       true,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if gotPath != "/create-stripe-checkout" {
		t.Fatalf("expected stripe function path, got %q", gotPath)
	}
	if outcome.Kind != OutcomeRedirect || outcome.RedirectURL != "https://checkout.stripe.com/x" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	_, cfg = newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]string{"qrCode": "data:image/png;base64,abc"})
	})
	outcome, err = CreatePayment(context.Background(), cfg, CreateInput{
		GatewayCode: "fonepay",
		Guest:       true,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if gotPath != "/create-payment" {
		t.Fatalf("expected generic function path, got %q", gotPath)
	}
	if outcome.Kind != OutcomeQR || outcome.QRCode == "" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestCreatePaymentOutcomeVariants(t *testing.T) {
	cases := []struct {
		name     string
		response map[string]interface{}
		kind     string
	}{
		{"approval url", map[string]interface{}{"approval_url": "https://paypal.example.com/x"}, OutcomeRedirect},
		{"order id", map[string]interface{}{"order_id": 98765}, OutcomeConfirmation},
		{"processing", map[string]interface{}{"status": "accepted"}, OutcomeProcessing},
	}
	for _, tc := range cases {
		_, cfg := newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(tc.response)
		})
		outcome, err := CreatePayment(context.Background(), cfg, CreateInput{
			GatewayCode: "paypal",
			Guest:       true,
		})
		if err != nil {
			t.Fatalf("%s: create payment failed: %v", tc.name, err)
		}
		if outcome.Kind != tc.kind {
			t.Fatalf("%s: expected kind %s, got %s", tc.name, tc.kind, outcome.Kind)
		}
	}
}

func TestCreatePaymentErrorSurface(t *testing.T) {
	_, cfg := newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "gateway credentials missing"})
	})
	_, err := CreatePayment(context.Background(), cfg, CreateInput{GatewayCode: "khalti", Guest: true})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "gateway credentials missing") {
		t.Fatalf("expected backend message in error, got %v", err)
	}

	// 2xx 但响应体携带 error 字段同样视为失败
	_, cfg = newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "quote already paid"})
	})
	_, err = CreatePayment(context.Background(), cfg, CreateInput{GatewayCode: "khalti", Guest: true})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed for error body, got %v", err)
	}

	_, cfg = newBackendServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	_, err = CreatePayment(context.Background(), cfg, CreateInput{GatewayCode: "khalti", Guest: true})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid for bad json, got %v", err)
	}
}

func TestIsStripeFamily(t *testing.T) {
	cfg := &Config{StripeGateways: []string{"stripe", "Stripe_Link"}}
	if !IsStripeFamily(cfg, "STRIPE") {
		t.Fatalf("expected stripe to match")
	}
	if !IsStripeFamily(cfg, "stripe_link") {
		t.Fatalf("expected stripe_link to match")
	}
	if IsStripeFamily(cfg, "khalti") {
		t.Fatalf("expected khalti to not match")
	}
	// 未配置列表时只认 stripe 本体
	if !IsStripeFamily(nil, "stripe") || IsStripeFamily(nil, "stripe_link") {
		t.Fatalf("unexpected default stripe family behaviour")
	}
}
