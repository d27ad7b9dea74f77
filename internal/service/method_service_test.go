package service

import (
	"context"
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

func setupMethodServiceTest(t *testing.T) (*MethodService, *CatalogService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:method_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.PaymentGateway{},
		&models.CountrySetting{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	catalogSvc := NewCatalogService(
		repository.NewGatewayRepository(db),
		repository.NewCountrySettingRepository(db),
		repository.NewSettingRepository(db),
		0, 0,
	)
	return NewMethodService(catalogSvc, nil), catalogSvc, db
}

func testGateway(code string, countries, currencies []string, withCredentials bool, sortOrder int) models.PaymentGateway {
	gateway := models.PaymentGateway{
		Name:       code,
		Code:       code,
		Countries:  models.StringArray(countries),
		Currencies: models.StringArray(currencies),
		PercentFee: models.NewMoneyFromDecimal(decimal.Zero),
		FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
		IsActive:   true,
		TestMode:   true,
		SortOrder:  sortOrder,
	}
	if withCredentials {
		gateway.Credentials = models.JSON{
			"test": map[string]interface{}{"secret_key": "sk_test"},
		}
	}
	return gateway
}

func TestResolveAvailableFiltersCurrencyAndCredentials(t *testing.T) {
	svc, _, db := setupMethodServiceTest(t)

	seed := []models.PaymentGateway{
		testGateway(constants.GatewayStripe, []string{"US"}, []string{"USD"}, true, 100),
		testGateway(constants.GatewayPaypal, []string{"US"}, []string{"EUR"}, true, 90),
		testGateway(constants.GatewayEsewa, []string{"NP"}, []string{"USD"}, false, 80),
		testGateway(constants.GatewayBankTransfer, nil, []string{"USD"}, false, 20),
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed gateway %s failed: %v", seed[i].Code, err)
		}
	}

	result := svc.ResolveAvailable(context.Background(), AvailabilityInput{Currency: "usd"})
	if result.Fallback {
		t.Fatalf("expected non-fallback result")
	}
	// paypal 币种不符，esewa 缺凭证，stripe 与银行转账应保留
	want := []string{constants.GatewayStripe, constants.GatewayBankTransfer}
	if len(result.Codes) != len(want) {
		t.Fatalf("expected codes %v, got %v", want, result.Codes)
	}
	for i, code := range want {
		if result.Codes[i] != code {
			t.Fatalf("expected codes %v, got %v", want, result.Codes)
		}
	}
}

func TestResolveAvailableCountrySettingOrder(t *testing.T) {
	svc, _, db := setupMethodServiceTest(t)

	seed := []models.PaymentGateway{
		testGateway(constants.GatewayStripe, []string{"NP"}, []string{"NPR"}, true, 100),
		testGateway(constants.GatewayEsewa, []string{"NP"}, []string{"NPR"}, true, 80),
		testGateway(constants.GatewayKhalti, []string{"NP"}, []string{"NPR"}, true, 70),
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed gateway %s failed: %v", seed[i].Code, err)
		}
	}
	setting := models.CountrySetting{
		CountryCode: "NP",
		AvailableGateways: models.StringArray([]string{
			constants.GatewayKhalti,
			constants.GatewayEsewa,
			constants.GatewayFonepay, // 目录中不存在，应被跳过
		}),
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed country setting failed: %v", err)
	}

	result := svc.ResolveAvailable(context.Background(), AvailabilityInput{Currency: "NPR", Country: "np"})
	want := []string{constants.GatewayKhalti, constants.GatewayEsewa}
	if len(result.Codes) != len(want) {
		t.Fatalf("expected codes %v, got %v", want, result.Codes)
	}
	for i, code := range want {
		if result.Codes[i] != code {
			t.Fatalf("expected codes %v, got %v", want, result.Codes)
		}
	}
}

func TestResolveAvailableEmptyCountryFilterFallsThrough(t *testing.T) {
	svc, _, db := setupMethodServiceTest(t)

	bank := testGateway(constants.GatewayBankTransfer, nil, []string{"USD"}, false, 20)
	if err := db.Create(&bank).Error; err != nil {
		t.Fatalf("seed gateway failed: %v", err)
	}
	// 国家配置只引用目录中不存在的网关
	setting := models.CountrySetting{
		CountryCode:       "US",
		AvailableGateways: models.StringArray([]string{constants.GatewayEsewa}),
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed country setting failed: %v", err)
	}

	result := svc.ResolveAvailable(context.Background(), AvailabilityInput{Currency: "USD", Country: "US"})
	if result.Fallback {
		t.Fatalf("expected non-fallback result")
	}
	if len(result.Codes) != 1 || result.Codes[0] != constants.GatewayBankTransfer {
		t.Fatalf("expected generic scan to surface bank_transfer, got %v", result.Codes)
	}
}

func TestResolveAvailableCODRules(t *testing.T) {
	svc, _, db := setupMethodServiceTest(t)

	cod := testGateway(constants.GatewayCOD, []string{"NP"}, []string{"NPR"}, false, 10)
	if err := db.Create(&cod).Error; err != nil {
		t.Fatalf("seed cod gateway failed: %v", err)
	}

	// 游客 + 目的国家在网关国家列表内：放行
	result := svc.ResolveAvailable(context.Background(), AvailabilityInput{Currency: "NPR", Country: "NP"})
	if len(result.Codes) != 1 || result.Codes[0] != constants.GatewayCOD {
		t.Fatalf("expected guest in NP to see cod, got %v", result.Codes)
	}

	// 游客 + 国家不匹配：排除
	result = svc.ResolveAvailable(context.Background(), AvailabilityInput{Currency: "NPR", Country: "US"})
	if len(result.Codes) != 0 {
		t.Fatalf("expected guest in US to see nothing, got %v", result.Codes)
	}

	// 登录用户未开通：排除
	result = svc.ResolveAvailable(context.Background(), AvailabilityInput{
		Currency: "NPR",
		Country:  "NP",
		User:     &models.User{ID: 1, CODOptIn: false},
	})
	if len(result.Codes) != 0 {
		t.Fatalf("expected opted-out user to see nothing, got %v", result.Codes)
	}

	// 登录用户已开通：放行
	result = svc.ResolveAvailable(context.Background(), AvailabilityInput{
		Currency: "NPR",
		Country:  "NP",
		User:     &models.User{ID: 1, CODOptIn: true},
	})
	if len(result.Codes) != 1 || result.Codes[0] != constants.GatewayCOD {
		t.Fatalf("expected opted-in user to see cod, got %v", result.Codes)
	}
}

type failingGatewayRepository struct{}

func (failingGatewayRepository) Create(*models.PaymentGateway) error             { return errDBDown }
func (failingGatewayRepository) Update(*models.PaymentGateway) error             { return errDBDown }
func (failingGatewayRepository) Delete(uint) error                               { return errDBDown }
func (failingGatewayRepository) GetByID(uint) (*models.PaymentGateway, error)    { return nil, errDBDown }
func (failingGatewayRepository) GetByCode(string) (*models.PaymentGateway, error) { return nil, errDBDown }
func (failingGatewayRepository) ListActive() ([]models.PaymentGateway, error)    { return nil, errDBDown }
func (failingGatewayRepository) List(repository.GatewayListFilter) ([]models.PaymentGateway, int64, error) {
	return nil, 0, errDBDown
}

var errDBDown = fmt.Errorf("database unavailable")

func TestResolveAvailableFallbackOnCatalogError(t *testing.T) {
	_, _, db := setupMethodServiceTest(t)
	catalogSvc := NewCatalogService(
		failingGatewayRepository{},
		repository.NewCountrySettingRepository(db),
		repository.NewSettingRepository(db),
		0, 0,
	)
	svc := NewMethodService(catalogSvc, nil)

	result := svc.ResolveAvailable(context.Background(), AvailabilityInput{Currency: "USD", Country: "US"})
	if !result.Fallback {
		t.Fatalf("expected fallback result")
	}
	if len(result.Codes) != 1 || result.Codes[0] != constants.GatewayBankTransfer {
		t.Fatalf("expected bank_transfer only, got %v", result.Codes)
	}
}

func TestRecommendCountryDefaultWins(t *testing.T) {
	svc, _, db := setupMethodServiceTest(t)
	setting := models.CountrySetting{
		CountryCode:       "NP",
		AvailableGateways: models.StringArray([]string{constants.GatewayKhalti, constants.GatewayEsewa}),
		DefaultGateway:    constants.GatewayEsewa,
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed country setting failed: %v", err)
	}

	available := []string{constants.GatewayKhalti, constants.GatewayEsewa}
	if got := svc.Recommend(context.Background(), "NP", available); got != constants.GatewayEsewa {
		t.Fatalf("expected country default esewa, got %q", got)
	}

	// 默认网关不可用时落到国家列表首个命中
	if got := svc.Recommend(context.Background(), "NP", []string{constants.GatewayKhalti}); got != constants.GatewayKhalti {
		t.Fatalf("expected khalti from country list, got %q", got)
	}
}

func TestRecommendGlobalPriority(t *testing.T) {
	svc, catalogSvc, _ := setupMethodServiceTest(t)
	if err := catalogSvc.SetGatewayPriority(context.Background(), []string{
		constants.GatewayPaypal,
		constants.GatewayStripe,
	}); err != nil {
		t.Fatalf("set gateway priority failed: %v", err)
	}

	available := []string{constants.GatewayStripe, constants.GatewayPaypal}
	if got := svc.Recommend(context.Background(), "", available); got != constants.GatewayPaypal {
		t.Fatalf("expected paypal from global priority, got %q", got)
	}
}

func TestRecommendCached(t *testing.T) {
	// 优先级列表命中
	got := RecommendCached([]string{"khalti", "esewa"}, []string{"esewa"})
	if got != "esewa" {
		t.Fatalf("expected esewa from priority, got %q", got)
	}
	// 内置兜底顺序：stripe 在 khalti 之前
	got = RecommendCached([]string{"khalti", "stripe"}, nil)
	if got != "stripe" {
		t.Fatalf("expected stripe from builtin order, got %q", got)
	}
	// 空可用集退化为银行转账
	got = RecommendCached(nil, nil)
	if got != constants.GatewayBankTransfer {
		t.Fatalf("expected bank_transfer for empty set, got %q", got)
	}
}
