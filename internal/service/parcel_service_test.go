package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/queue"
	"github.com/himalbox/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupParcelServiceTest(t *testing.T) (*ParcelService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:parcel_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Parcel{}, &models.Consolidation{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	// 合箱与发货走 models.DB 事务
	models.DB = db
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	ratePerKg, _ := models.NewMoneyFromString("6.50")
	handling, _ := models.NewMoneyFromString("1.00")
	svc := NewParcelService(
		repository.NewParcelRepository(db),
		repository.NewConsolidationRepository(db),
		queueClient,
		ShippingRates{
			VolumetricDivisor:  5000,
			RatePerKg:          ratePerKg,
			HandlingPerPackage: handling,
			Currency:           "USD",
		},
	)
	return svc, db
}

func receiveTestParcel(t *testing.T, svc *ParcelService, userID uint, trackingNo string, weight float64, l, w, h int) *models.Parcel {
	t.Helper()
	if _, err := svc.RegisterParcel(RegisterParcelInput{UserID: userID, TrackingNo: trackingNo}); err != nil {
		t.Fatalf("register parcel %s failed: %v", trackingNo, err)
	}
	parcel, err := svc.ReceiveParcel(ReceiveParcelInput{
		TrackingNo: trackingNo,
		WeightKg:   models.NewMoneyFromDecimal(decimal.NewFromFloat(weight)),
		LengthCm:   l,
		WidthCm:    w,
		HeightCm:   h,
	})
	if err != nil {
		t.Fatalf("receive parcel %s failed: %v", trackingNo, err)
	}
	return parcel
}

func TestRegisterParcelDuplicateTrackingNo(t *testing.T) {
	svc, _ := setupParcelServiceTest(t)
	if _, err := svc.RegisterParcel(RegisterParcelInput{UserID: 1, TrackingNo: "TRK001"}); err != nil {
		t.Fatalf("register parcel failed: %v", err)
	}
	if _, err := svc.RegisterParcel(RegisterParcelInput{UserID: 2, TrackingNo: "TRK001"}); !errors.Is(err, ErrParcelExists) {
		t.Fatalf("expected ErrParcelExists, got %v", err)
	}
}

func TestReceiveParcelSetsWeightAndStatus(t *testing.T) {
	svc, _ := setupParcelServiceTest(t)
	parcel := receiveTestParcel(t, svc, 1, "TRK002", 2.4, 30, 20, 10)
	if parcel.Status != constants.PackageStatusReceived {
		t.Fatalf("expected received status, got %s", parcel.Status)
	}
	if parcel.ReceivedAt == nil {
		t.Fatalf("expected received_at to be set")
	}
	if parcel.WeightKg.String() != "2.40" {
		t.Fatalf("unexpected weight: %s", parcel.WeightKg.String())
	}
}

func TestChargeableWeightVolumetric(t *testing.T) {
	svc, _ := setupParcelServiceTest(t)

	// 30*20*10/5000 = 1.2kg 体积重 < 2.4kg 实重
	heavy := &models.Parcel{
		WeightKg: models.NewMoneyFromDecimal(decimal.NewFromFloat(2.4)),
		LengthCm: 30, WidthCm: 20, HeightCm: 10,
	}
	if got := svc.ChargeableWeight(heavy); got.StringFixed(2) != "2.40" {
		t.Fatalf("expected actual weight 2.40, got %s", got.StringFixed(2))
	}

	// 50*40*30/5000 = 12kg 体积重 > 3kg 实重
	bulky := &models.Parcel{
		WeightKg: models.NewMoneyFromDecimal(decimal.NewFromFloat(3)),
		LengthCm: 50, WidthCm: 40, HeightCm: 30,
	}
	if got := svc.ChargeableWeight(bulky); got.StringFixed(2) != "12.00" {
		t.Fatalf("expected volumetric weight 12.00, got %s", got.StringFixed(2))
	}

	if got := svc.ChargeableWeight(nil); !got.IsZero() {
		t.Fatalf("expected zero weight for nil parcel, got %s", got.String())
	}
}

func TestAddParcelsRecalculatesShippingCost(t *testing.T) {
	svc, _ := setupParcelServiceTest(t)
	first := receiveTestParcel(t, svc, 1, "TRK010", 2.4, 30, 20, 10) // 计费重 2.4
	second := receiveTestParcel(t, svc, 1, "TRK011", 3, 50, 40, 30)  // 计费重 12

	consolidation, err := svc.CreateConsolidation(1, "np")
	if err != nil {
		t.Fatalf("create consolidation failed: %v", err)
	}
	if consolidation.Status != constants.ConsolidationStatusOpen {
		t.Fatalf("expected open status, got %s", consolidation.Status)
	}
	if consolidation.DestCountry != "NP" {
		t.Fatalf("expected normalized dest country, got %s", consolidation.DestCountry)
	}

	updated, err := svc.AddParcels(consolidation.ID, []uint{first.ID, second.ID})
	if err != nil {
		t.Fatalf("add parcels failed: %v", err)
	}
	if updated.ChargeableKg.String() != "14.40" {
		t.Fatalf("expected chargeable weight 14.40, got %s", updated.ChargeableKg.String())
	}
	// 14.4 * 6.50 + 2 * 1.00 = 95.60
	if updated.ShippingCost.String() != "95.60" {
		t.Fatalf("expected shipping cost 95.60, got %s", updated.ShippingCost.String())
	}
	for _, parcel := range updated.Parcels {
		if parcel.Status != constants.PackageStatusConsolidated {
			t.Fatalf("expected consolidated parcel, got %s", parcel.Status)
		}
	}
}

func TestAddParcelsRejectsForeignOrUnreceived(t *testing.T) {
	svc, _ := setupParcelServiceTest(t)
	mine := receiveTestParcel(t, svc, 1, "TRK020", 1, 10, 10, 10)
	theirs := receiveTestParcel(t, svc, 2, "TRK021", 1, 10, 10, 10)
	expected, err := svc.RegisterParcel(RegisterParcelInput{UserID: 1, TrackingNo: "TRK022"})
	if err != nil {
		t.Fatalf("register parcel failed: %v", err)
	}

	consolidation, err := svc.CreateConsolidation(1, "NP")
	if err != nil {
		t.Fatalf("create consolidation failed: %v", err)
	}

	if _, err := svc.AddParcels(consolidation.ID, []uint{mine.ID, theirs.ID}); !errors.Is(err, ErrParcelNotConsolidable) {
		t.Fatalf("expected ErrParcelNotConsolidable for foreign parcel, got %v", err)
	}
	if _, err := svc.AddParcels(consolidation.ID, []uint{expected.ID}); !errors.Is(err, ErrParcelNotConsolidable) {
		t.Fatalf("expected ErrParcelNotConsolidable for unreceived parcel, got %v", err)
	}
	if _, err := svc.AddParcels(consolidation.ID, []uint{mine.ID, 9999}); !errors.Is(err, ErrParcelNotFound) {
		t.Fatalf("expected ErrParcelNotFound for unknown parcel, got %v", err)
	}
}

func TestConsolidationLifecycle(t *testing.T) {
	svc, _ := setupParcelServiceTest(t)
	parcel := receiveTestParcel(t, svc, 1, "TRK030", 1.5, 10, 10, 10)

	consolidation, err := svc.CreateConsolidation(1, "NP")
	if err != nil {
		t.Fatalf("create consolidation failed: %v", err)
	}
	if _, err := svc.AddParcels(consolidation.ID, []uint{parcel.ID}); err != nil {
		t.Fatalf("add parcels failed: %v", err)
	}

	// 发货要求先合箱封单
	if _, err := svc.ShipConsolidation(consolidation.ID); !errors.Is(err, ErrConsolidationNotOpen) {
		t.Fatalf("expected ErrConsolidationNotOpen before close, got %v", err)
	}

	closed, err := svc.CloseConsolidation(consolidation.ID)
	if err != nil {
		t.Fatalf("close consolidation failed: %v", err)
	}
	if closed.Status != constants.ConsolidationStatusClosed || closed.ClosedAt == nil {
		t.Fatalf("expected closed consolidation, got %+v", closed)
	}
	if _, err := svc.CloseConsolidation(consolidation.ID); !errors.Is(err, ErrConsolidationNotOpen) {
		t.Fatalf("expected ErrConsolidationNotOpen on second close, got %v", err)
	}
	if _, err := svc.AddParcels(consolidation.ID, []uint{parcel.ID}); !errors.Is(err, ErrConsolidationNotOpen) {
		t.Fatalf("expected ErrConsolidationNotOpen after close, got %v", err)
	}

	shipped, err := svc.ShipConsolidation(consolidation.ID)
	if err != nil {
		t.Fatalf("ship consolidation failed: %v", err)
	}
	if shipped.Status != constants.ConsolidationStatusShipped || shipped.ShippedAt == nil {
		t.Fatalf("expected shipped consolidation, got %+v", shipped)
	}

	final, err := svc.GetParcel(parcel.ID)
	if err != nil {
		t.Fatalf("get parcel failed: %v", err)
	}
	if final.Status != constants.PackageStatusShipped {
		t.Fatalf("expected shipped parcel, got %s", final.Status)
	}
}
