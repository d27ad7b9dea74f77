package constants

// 支付网关代码常量
const (
	GatewayStripe       = "stripe"
	GatewayPaypal       = "paypal"
	GatewayEsewa        = "esewa"
	GatewayKhalti       = "khalti"
	GatewayFonepay      = "fonepay"
	GatewayImepay       = "imepay"
	GatewayBankTransfer = "bank_transfer"
	GatewayCOD          = "cod"
)

// GatewayFallbackPriority 兜底推荐顺序（卡类网关优先，其次本地钱包，最后银行转账与货到付款）
var GatewayFallbackPriority = []string{
	GatewayStripe,
	GatewayPaypal,
	GatewayEsewa,
	GatewayKhalti,
	GatewayFonepay,
	GatewayImepay,
	GatewayBankTransfer,
	GatewayCOD,
}

// 报价单状态常量
const (
	QuoteStatusDraft           = "draft"
	QuoteStatusQuoted          = "quoted"
	QuoteStatusAwaitingPayment = "awaiting_payment"
	QuoteStatusPaid            = "paid"
	QuoteStatusCanceled        = "canceled"
)

// 支付记录状态常量
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSucceeded  = "succeeded"
	PaymentStatusFailed     = "failed"
)

// 支付凭证状态常量
const (
	ProofStatusPending  = "pending"
	ProofStatusVerified = "verified"
	ProofStatusRejected = "rejected"
)

// 包裹状态常量
const (
	PackageStatusExpected     = "expected"
	PackageStatusReceived     = "received"
	PackageStatusConsolidated = "consolidated"
	PackageStatusShipped      = "shipped"
	PackageStatusDelivered    = "delivered"
)

// 集运单状态常量
const (
	ConsolidationStatusOpen    = "open"
	ConsolidationStatusClosed  = "closed"
	ConsolidationStatusShipped = "shipped"
)

// 通知类型常量
const (
	NotificationTypePaymentStatus  = "payment_status"
	NotificationTypePackageArrival = "package_arrival"
	NotificationTypeProofReview    = "proof_review"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 系统设置键常量
const (
	SettingKeyGatewayPriority = "gateway_priority"
	SettingKeySiteCurrency    = "site_currency"
)

// 站点默认币种
const SiteCurrencyDefault = "USD"

// 缓存键常量
const (
	CacheKeyGatewayCatalog  = "payment:catalog"
	CacheKeyGatewayPriority = "payment:priority"
)

// 异步任务名称常量
const (
	TaskPaymentStatusNotify  = "notify:payment_status"
	TaskPackageArrivalNotify = "notify:package_arrival"
	TaskProofReviewNotify    = "notify:proof_review"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// SupportedLocales 支持的界面语言（按回退顺序）
var SupportedLocales = []string{"en", "ne", "zh-CN"}
