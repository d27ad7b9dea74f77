package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/queue"
	"github.com/himalbox/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingRates 集运计费参数
type ShippingRates struct {
	VolumetricDivisor  int          // 体积重系数（cm³/kg）
	RatePerKg          models.Money // 每公斤运费
	HandlingPerPackage models.Money // 单件操作费
	Currency           string       // 计费币种
}

// ParcelService 仓库包裹与集运服务
type ParcelService struct {
	parcelRepo        repository.ParcelRepository
	consolidationRepo repository.ConsolidationRepository
	queueClient       *queue.Client
	rates             ShippingRates
}

// NewParcelService 创建包裹服务
func NewParcelService(parcelRepo repository.ParcelRepository, consolidationRepo repository.ConsolidationRepository, queueClient *queue.Client, rates ShippingRates) *ParcelService {
	if rates.VolumetricDivisor <= 0 {
		rates.VolumetricDivisor = 5000
	}
	if strings.TrimSpace(rates.Currency) == "" {
		rates.Currency = constants.SiteCurrencyDefault
	}
	return &ParcelService{
		parcelRepo:        parcelRepo,
		consolidationRepo: consolidationRepo,
		queueClient:       queueClient,
		rates:             rates,
	}
}

// RegisterParcelInput 登记预报包裹输入
type RegisterParcelInput struct {
	UserID        uint
	TrackingNo    string
	Description   string
	DeclaredValue models.Money
}

// RegisterParcel 用户预报包裹（expected 状态）
func (s *ParcelService) RegisterParcel(input RegisterParcelInput) (*models.Parcel, error) {
	trackingNo := strings.TrimSpace(input.TrackingNo)
	if trackingNo == "" || input.UserID == 0 {
		return nil, ErrParcelNotFound
	}
	existing, err := s.parcelRepo.GetByTrackingNo(trackingNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrParcelExists
	}
	parcel := &models.Parcel{
		UserID:        input.UserID,
		TrackingNo:    trackingNo,
		Description:   strings.TrimSpace(input.Description),
		DeclaredValue: input.DeclaredValue,
		Status:        constants.PackageStatusExpected,
	}
	if err := s.parcelRepo.Create(parcel); err != nil {
		return nil, err
	}
	logger.Infow("parcel_registered", "tracking_no", parcel.TrackingNo, "user_id", parcel.UserID)
	return parcel, nil
}

// ReceiveParcelInput 包裹入仓输入
type ReceiveParcelInput struct {
	TrackingNo string
	WeightKg   models.Money
	LengthCm   int
	WidthCm    int
	HeightCm   int
}

// ReceiveParcel 仓库收货：记录称重量方并推送到仓通知。
// 未预报的运单号直接落一条无主记录交由人工认领不在本服务范围。
func (s *ParcelService) ReceiveParcel(input ReceiveParcelInput) (*models.Parcel, error) {
	parcel, err := s.parcelRepo.GetByTrackingNo(strings.TrimSpace(input.TrackingNo))
	if err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, ErrParcelNotFound
	}
	now := time.Now()
	parcel.WeightKg = input.WeightKg
	parcel.LengthCm = input.LengthCm
	parcel.WidthCm = input.WidthCm
	parcel.HeightCm = input.HeightCm
	parcel.Status = constants.PackageStatusReceived
	parcel.ReceivedAt = &now
	if err := s.parcelRepo.Update(parcel); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueuePackageArrivalNotify(queue.PackageArrivalNotifyPayload{
		ParcelID:   parcel.ID,
		UserID:     parcel.UserID,
		TrackingNo: parcel.TrackingNo,
	}); err != nil {
		logger.Warnw("parcel_arrival_notify_enqueue_failed", "error", err, "parcel_id", parcel.ID)
	}

	logger.Infow("parcel_received",
		"tracking_no", parcel.TrackingNo,
		"weight_kg", parcel.WeightKg.String(),
	)
	return parcel, nil
}

// GetParcel 按 ID 获取包裹
func (s *ParcelService) GetParcel(id uint) (*models.Parcel, error) {
	parcel, err := s.parcelRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, ErrParcelNotFound
	}
	return parcel, nil
}

// ListParcels 包裹列表
func (s *ParcelService) ListParcels(filter repository.ParcelListFilter) ([]models.Parcel, int64, error) {
	return s.parcelRepo.List(filter)
}

// CreateConsolidation 创建集运单（open 状态）
func (s *ParcelService) CreateConsolidation(userID uint, destCountry string) (*models.Consolidation, error) {
	if userID == 0 {
		return nil, ErrConsolidationNotFound
	}
	consolidation := &models.Consolidation{
		ConsolidationNo: newConsolidationNo(),
		UserID:          userID,
		DestCountry:     strings.ToUpper(strings.TrimSpace(destCountry)),
		Status:          constants.ConsolidationStatusOpen,
		Currency:        s.rates.Currency,
	}
	if err := s.consolidationRepo.Create(consolidation); err != nil {
		return nil, err
	}
	logger.Infow("consolidation_created", "consolidation_no", consolidation.ConsolidationNo, "user_id", userID)
	return consolidation, nil
}

// AddParcels 把已入仓包裹并入集运单并重算重量与运费
func (s *ParcelService) AddParcels(consolidationID uint, parcelIDs []uint) (*models.Consolidation, error) {
	consolidation, err := s.consolidationRepo.GetByID(consolidationID)
	if err != nil {
		return nil, err
	}
	if consolidation == nil {
		return nil, ErrConsolidationNotFound
	}
	if consolidation.Status != constants.ConsolidationStatusOpen {
		return nil, ErrConsolidationNotOpen
	}
	parcels, err := s.parcelRepo.ListByIDs(parcelIDs)
	if err != nil {
		return nil, err
	}
	if len(parcels) != len(parcelIDs) {
		return nil, ErrParcelNotFound
	}
	for i := range parcels {
		if parcels[i].UserID != consolidation.UserID {
			return nil, ErrParcelNotConsolidable
		}
		if parcels[i].Status != constants.PackageStatusReceived {
			return nil, ErrParcelNotConsolidable
		}
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		parcelRepo := s.parcelRepo.WithTx(tx)
		for i := range parcels {
			parcels[i].Status = constants.PackageStatusConsolidated
			parcels[i].ConsolidationID = consolidation.ID
			if err := parcelRepo.Update(&parcels[i]); err != nil {
				return err
			}
		}
		return s.recalculate(tx, consolidation)
	})
	if err != nil {
		return nil, err
	}
	return s.consolidationRepo.GetByID(consolidation.ID)
}

// CloseConsolidation 合箱封单（不再接收包裹）
func (s *ParcelService) CloseConsolidation(id uint) (*models.Consolidation, error) {
	consolidation, err := s.consolidationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if consolidation == nil {
		return nil, ErrConsolidationNotFound
	}
	if consolidation.Status != constants.ConsolidationStatusOpen {
		return nil, ErrConsolidationNotOpen
	}
	now := time.Now()
	consolidation.Status = constants.ConsolidationStatusClosed
	consolidation.ClosedAt = &now
	if err := s.consolidationRepo.Update(consolidation); err != nil {
		return nil, err
	}
	logger.Infow("consolidation_closed",
		"consolidation_no", consolidation.ConsolidationNo,
		"chargeable_kg", consolidation.ChargeableKg.String(),
		"shipping_cost", consolidation.ShippingCost.String(),
	)
	return consolidation, nil
}

// ShipConsolidation 集运单发货
func (s *ParcelService) ShipConsolidation(id uint) (*models.Consolidation, error) {
	consolidation, err := s.consolidationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if consolidation == nil {
		return nil, ErrConsolidationNotFound
	}
	if consolidation.Status != constants.ConsolidationStatusClosed {
		return nil, ErrConsolidationNotOpen
	}
	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		consolidationRepo := s.consolidationRepo.WithTx(tx)
		consolidation.Status = constants.ConsolidationStatusShipped
		consolidation.ShippedAt = &now
		if err := consolidationRepo.Update(consolidation); err != nil {
			return err
		}
		parcelRepo := s.parcelRepo.WithTx(tx)
		for i := range consolidation.Parcels {
			consolidation.Parcels[i].Status = constants.PackageStatusShipped
			if err := parcelRepo.Update(&consolidation.Parcels[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consolidation, nil
}

// GetConsolidation 按 ID 获取集运单
func (s *ParcelService) GetConsolidation(id uint) (*models.Consolidation, error) {
	consolidation, err := s.consolidationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if consolidation == nil {
		return nil, ErrConsolidationNotFound
	}
	return consolidation, nil
}

// ListConsolidations 集运单列表
func (s *ParcelService) ListConsolidations(filter repository.ConsolidationListFilter) ([]models.Consolidation, int64, error) {
	return s.consolidationRepo.List(filter)
}

// ChargeableWeight 单件计费重量：实重与体积重取大
func (s *ParcelService) ChargeableWeight(parcel *models.Parcel) decimal.Decimal {
	if parcel == nil {
		return decimal.Zero
	}
	actual := parcel.WeightKg.Decimal
	volumetric := decimal.NewFromInt(int64(parcel.LengthCm)).
		Mul(decimal.NewFromInt(int64(parcel.WidthCm))).
		Mul(decimal.NewFromInt(int64(parcel.HeightCm))).
		Div(decimal.NewFromInt(int64(s.rates.VolumetricDivisor))).
		Round(2)
	if volumetric.GreaterThan(actual) {
		return volumetric
	}
	return actual
}

// recalculate 重算集运单计费重量与运费：
// 合计计费重 × 每公斤费率 + 件数 × 单件操作费。
func (s *ParcelService) recalculate(tx *gorm.DB, consolidation *models.Consolidation) error {
	parcels, _, err := s.parcelRepo.WithTx(tx).List(repository.ParcelListFilter{
		ConsolidationID: consolidation.ID,
	})
	if err != nil {
		return err
	}
	totalWeight := decimal.Zero
	count := int64(0)
	for i := range parcels {
		totalWeight = totalWeight.Add(s.ChargeableWeight(&parcels[i]))
		count++
	}
	cost := totalWeight.Mul(s.rates.RatePerKg.Decimal).
		Add(decimal.NewFromInt(count).Mul(s.rates.HandlingPerPackage.Decimal))

	consolidation.ChargeableKg = models.NewMoneyFromDecimal(totalWeight)
	consolidation.ShippingCost = models.NewMoneyFromDecimal(cost)
	return s.consolidationRepo.WithTx(tx).Update(consolidation)
}

func newConsolidationNo() string {
	return fmt.Sprintf("C%s%s",
		time.Now().Format("20060102"),
		strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]),
	)
}
