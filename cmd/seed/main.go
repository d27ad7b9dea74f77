package main

import (
	"fmt"

	"github.com/himalbox/internal/config"
	"github.com/himalbox/internal/constants"
	"github.com/himalbox/internal/logger"
	"github.com/himalbox/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加支付网关
	gateways := []models.PaymentGateway{
		{
			Name:       "Stripe",
			Code:       constants.GatewayStripe,
			Countries:  models.StringArray([]string{"US", "CA", "GB", "AU", "NP"}),
			Currencies: models.StringArray([]string{"USD", "CAD", "GBP", "AUD"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(2.9)),
			FixedFee:   models.NewMoneyFromDecimal(decimal.NewFromFloat(0.30)),
			Credentials: models.JSON(map[string]interface{}{
				"test": map[string]interface{}{
					"publishable_key": "pk_test_seed",
					"secret_key":      "sk_test_seed",
				},
				"live": map[string]interface{}{},
			}),
			TestMode:  true,
			IsActive:  true,
			SortOrder: 100,
		},
		{
			Name:       "PayPal",
			Code:       constants.GatewayPaypal,
			Countries:  models.StringArray([]string{"US", "CA", "GB", "AU"}),
			Currencies: models.StringArray([]string{"USD", "CAD", "GBP", "AUD"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(3.4)),
			FixedFee:   models.NewMoneyFromDecimal(decimal.NewFromFloat(0.30)),
			Credentials: models.JSON(map[string]interface{}{
				"test": map[string]interface{}{
					"client_id":     "paypal_client_seed",
					"client_secret": "paypal_secret_seed",
				},
				"live": map[string]interface{}{},
			}),
			TestMode:  true,
			IsActive:  true,
			SortOrder: 90,
		},
		{
			Name:       "eSewa",
			Code:       constants.GatewayEsewa,
			Countries:  models.StringArray([]string{"NP"}),
			Currencies: models.StringArray([]string{"NPR"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.5)),
			FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
			Credentials: models.JSON(map[string]interface{}{
				"test": map[string]interface{}{
					"merchant_code": "EPAYTEST",
					"secret":        "esewa_secret_seed",
				},
				"live": map[string]interface{}{},
			}),
			TestMode:  true,
			IsActive:  true,
			SortOrder: 80,
		},
		{
			Name:       "Khalti",
			Code:       constants.GatewayKhalti,
			Countries:  models.StringArray([]string{"NP"}),
			Currencies: models.StringArray([]string{"NPR"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(2.0)),
			FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
			Credentials: models.JSON(map[string]interface{}{
				"test": map[string]interface{}{
					"public_key": "khalti_public_seed",
					"secret_key": "khalti_secret_seed",
				},
				"live": map[string]interface{}{},
			}),
			TestMode:  true,
			IsActive:  true,
			SortOrder: 70,
		},
		{
			Name:       "Fonepay",
			Code:       constants.GatewayFonepay,
			Countries:  models.StringArray([]string{"NP"}),
			Currencies: models.StringArray([]string{"NPR"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.8)),
			FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
			Credentials: models.JSON(map[string]interface{}{
				"test": map[string]interface{}{
					"merchant_code": "fonepay_seed",
					"secret":        "fonepay_secret_seed",
				},
				"live": map[string]interface{}{},
			}),
			TestMode:  true,
			IsActive:  true,
			SortOrder: 60,
		},
		{
			Name:       "IME Pay",
			Code:       constants.GatewayImepay,
			Countries:  models.StringArray([]string{"NP"}),
			Currencies: models.StringArray([]string{"NPR"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.8)),
			FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
			Credentials: models.JSON(map[string]interface{}{
				"test": map[string]interface{}{
					"module":   "imepay_seed",
					"user":     "imepay_user_seed",
					"password": "imepay_pass_seed",
				},
				"live": map[string]interface{}{},
			}),
			TestMode:  true,
			IsActive:  true,
			SortOrder: 50,
		},
		{
			// 人工网关不要求凭证配置
			Name:       "Bank Transfer",
			Code:       constants.GatewayBankTransfer,
			Countries:  models.StringArray([]string{}),
			Currencies: models.StringArray([]string{"USD", "NPR", "CAD", "GBP", "AUD"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.Zero),
			FixedFee:   models.NewMoneyFromDecimal(decimal.Zero),
			TestMode:   false,
			IsActive:   true,
			SortOrder:  20,
		},
		{
			Name:       "Cash on Delivery",
			Code:       constants.GatewayCOD,
			Countries:  models.StringArray([]string{"NP"}),
			Currencies: models.StringArray([]string{"NPR"}),
			PercentFee: models.NewMoneyFromDecimal(decimal.Zero),
			FixedFee:   models.NewMoneyFromDecimal(decimal.NewFromFloat(1.00)),
			TestMode:   false,
			IsActive:   true,
			SortOrder:  10,
		},
	}

	for _, gw := range gateways {
		var existing models.PaymentGateway
		if err := models.DB.Where("code = ?", gw.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&gw).Error; err != nil {
				stdLog.Printf("Failed to create gateway %s: %v", gw.Code, err)
			} else {
				stdLog.Printf("Created gateway: %s", gw.Code)
			}
		} else {
			existing.Name = gw.Name
			existing.Countries = gw.Countries
			existing.Currencies = gw.Currencies
			existing.PercentFee = gw.PercentFee
			existing.FixedFee = gw.FixedFee
			existing.TestMode = gw.TestMode
			existing.IsActive = gw.IsActive
			existing.SortOrder = gw.SortOrder
			if len(gw.Credentials) > 0 {
				existing.Credentials = gw.Credentials
			}
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update gateway %s: %v", gw.Code, err)
			} else {
				stdLog.Printf("Updated gateway: %s", gw.Code)
			}
		}
	}

	// 添加国家支付配置
	countrySettings := []models.CountrySetting{
		{
			CountryCode: "NP",
			AvailableGateways: models.StringArray([]string{
				constants.GatewayEsewa,
				constants.GatewayKhalti,
				constants.GatewayFonepay,
				constants.GatewayImepay,
				constants.GatewayBankTransfer,
				constants.GatewayCOD,
			}),
			DefaultGateway: constants.GatewayEsewa,
			Overrides: models.JSON(map[string]interface{}{
				"bank_transfer_note": "Deposit to our NIC Asia account and upload the slip.",
			}),
		},
		{
			CountryCode: "US",
			AvailableGateways: models.StringArray([]string{
				constants.GatewayStripe,
				constants.GatewayPaypal,
				constants.GatewayBankTransfer,
			}),
			DefaultGateway: constants.GatewayStripe,
		},
		{
			CountryCode: "GB",
			AvailableGateways: models.StringArray([]string{
				constants.GatewayStripe,
				constants.GatewayPaypal,
				constants.GatewayBankTransfer,
			}),
			DefaultGateway: constants.GatewayStripe,
		},
		{
			CountryCode: "AU",
			AvailableGateways: models.StringArray([]string{
				constants.GatewayPaypal,
				constants.GatewayStripe,
				constants.GatewayBankTransfer,
			}),
			DefaultGateway: constants.GatewayPaypal,
		},
	}

	for _, cs := range countrySettings {
		var existing models.CountrySetting
		if err := models.DB.Where("country_code = ?", cs.CountryCode).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cs).Error; err != nil {
				stdLog.Printf("Failed to create country setting %s: %v", cs.CountryCode, err)
			} else {
				stdLog.Printf("Created country setting: %s", cs.CountryCode)
			}
		} else {
			existing.AvailableGateways = cs.AvailableGateways
			existing.DefaultGateway = cs.DefaultGateway
			existing.Overrides = cs.Overrides
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update country setting %s: %v", cs.CountryCode, err)
			} else {
				stdLog.Printf("Updated country setting: %s", cs.CountryCode)
			}
		}
	}

	// 更新系统设置（全局推荐顺序与站点币种）
	settings := []models.Setting{
		{
			Key: constants.SettingKeyGatewayPriority,
			ValueJSON: models.JSON(map[string]interface{}{
				"codes": []interface{}{
					constants.GatewayStripe,
					constants.GatewayEsewa,
					constants.GatewayKhalti,
					constants.GatewayPaypal,
					constants.GatewayFonepay,
					constants.GatewayImepay,
					constants.GatewayBankTransfer,
					constants.GatewayCOD,
				},
			}),
		},
		{
			Key: constants.SettingKeySiteCurrency,
			ValueJSON: models.JSON(map[string]interface{}{
				"code": constants.SiteCurrencyDefault,
			}),
		},
	}

	for _, s := range settings {
		var existing models.Setting
		if err := models.DB.Where("key = ?", s.Key).First(&existing).Error; err != nil {
			if err := models.DB.Create(&s).Error; err != nil {
				stdLog.Printf("Failed to create setting %s: %v", s.Key, err)
			} else {
				stdLog.Printf("Created setting: %s", s.Key)
			}
		} else {
			existing.ValueJSON = s.ValueJSON
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update setting %s: %v", s.Key, err)
			} else {
				stdLog.Printf("Updated setting: %s", s.Key)
			}
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 8 Payment gateways")
	fmt.Println("- 4 Country settings (NP / US / GB / AU)")
	fmt.Println("- Gateway priority and site currency settings")
}
