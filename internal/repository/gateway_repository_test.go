package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/himalbox/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupGatewayRepositoryTest(t *testing.T) (*GormGatewayRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:gateway_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PaymentGateway{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewGatewayRepository(db), db
}

func seedRepoGateway(t *testing.T, db *gorm.DB, code string, active bool, sortOrder int, currencies []string) {
	t.Helper()
	gateway := models.PaymentGateway{
		Name:       code,
		Code:       code,
		Currencies: models.StringArray(currencies),
		PercentFee: models.NewMoneyFromDecimal(decimal.Zero),
		FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
		IsActive:   active,
		SortOrder:  sortOrder,
	}
	if err := db.Create(&gateway).Error; err != nil {
		t.Fatalf("seed gateway %s failed: %v", code, err)
	}
}

func TestGatewayRepositoryListActiveOrder(t *testing.T) {
	repo, db := setupGatewayRepositoryTest(t)
	seedRepoGateway(t, db, "khalti", true, 70, []string{"NPR"})
	seedRepoGateway(t, db, "stripe", true, 100, []string{"USD"})
	seedRepoGateway(t, db, "disabled", false, 200, []string{"USD"})

	gateways, err := repo.ListActive()
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(gateways) != 2 {
		t.Fatalf("expected 2 active gateways, got %d", len(gateways))
	}
	if gateways[0].Code != "stripe" || gateways[1].Code != "khalti" {
		t.Fatalf("unexpected order: %s, %s", gateways[0].Code, gateways[1].Code)
	}
}

func TestGatewayRepositoryListCurrencyFilter(t *testing.T) {
	repo, db := setupGatewayRepositoryTest(t)
	seedRepoGateway(t, db, "stripe", true, 100, []string{"USD", "GBP"})
	seedRepoGateway(t, db, "esewa", true, 80, []string{"NPR"})

	gateways, total, err := repo.List(GatewayListFilter{Currency: "NPR"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(gateways) != 1 || gateways[0].Code != "esewa" {
		t.Fatalf("expected esewa only, got total=%d gateways=%v", total, gateways)
	}
}

func TestGatewayRepositoryGetByCode(t *testing.T) {
	repo, db := setupGatewayRepositoryTest(t)
	seedRepoGateway(t, db, "fonepay", true, 10, []string{"NPR"})

	gateway, err := repo.GetByCode("fonepay")
	if err != nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if gateway == nil || gateway.Code != "fonepay" {
		t.Fatalf("unexpected gateway: %+v", gateway)
	}

	missing, err := repo.GetByCode("unknown")
	if err != nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown code, got %+v", missing)
	}
}

func TestSettingRepositoryUpsert(t *testing.T) {
	_, db := setupGatewayRepositoryTest(t)
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	repo := NewSettingRepository(db)

	created, err := repo.Upsert("gateway_priority", models.JSON{"codes": []interface{}{"stripe"}})
	if err != nil {
		t.Fatalf("upsert create failed: %v", err)
	}
	if created.Key != "gateway_priority" {
		t.Fatalf("unexpected key: %s", created.Key)
	}

	updated, err := repo.Upsert("gateway_priority", models.JSON{"codes": []interface{}{"esewa"}})
	if err != nil {
		t.Fatalf("upsert update failed: %v", err)
	}
	codes, ok := updated.ValueJSON["codes"].([]interface{})
	if !ok || len(codes) != 1 || codes[0] != "esewa" {
		t.Fatalf("unexpected value after update: %v", updated.ValueJSON)
	}

	loaded, err := repo.GetByKey("gateway_priority")
	if err != nil {
		t.Fatalf("get by key failed: %v", err)
	}
	if loaded == nil {
		t.Fatalf("expected persisted setting")
	}
}
