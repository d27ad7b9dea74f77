package service

import "errors"

var (
	// ErrGatewayNotFound 支付网关不存在
	ErrGatewayNotFound = errors.New("payment gateway not found")
	// ErrGatewayUnavailable 支付网关对当前请求不可用
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrGatewayConfigInvalid 支付网关配置无效
	ErrGatewayConfigInvalid = errors.New("payment gateway config invalid")
	// ErrCountrySettingNotFound 国家配置不存在
	ErrCountrySettingNotFound = errors.New("country setting not found")
	// ErrPaymentInvalid 支付请求无效
	ErrPaymentInvalid = errors.New("payment request invalid")
	// ErrPaymentNotFound 支付记录不存在
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentFailed 支付创建失败
	ErrPaymentFailed = errors.New("payment create failed")
	// ErrQuoteNotFound 报价单不存在
	ErrQuoteNotFound = errors.New("quote not found")
	// ErrQuoteNotPayable 报价单不可支付
	ErrQuoteNotPayable = errors.New("quote not payable")
	// ErrProofNotFound 支付凭证不存在
	ErrProofNotFound = errors.New("payment proof not found")
	// ErrProofAlreadyReviewed 支付凭证已审核
	ErrProofAlreadyReviewed = errors.New("payment proof already reviewed")
	// ErrParcelNotFound 包裹不存在
	ErrParcelNotFound = errors.New("parcel not found")
	// ErrParcelExists 包裹运单号已存在
	ErrParcelExists = errors.New("parcel tracking number exists")
	// ErrParcelNotConsolidable 包裹当前不可合箱
	ErrParcelNotConsolidable = errors.New("parcel not consolidable")
	// ErrConsolidationNotFound 集运单不存在
	ErrConsolidationNotFound = errors.New("consolidation not found")
	// ErrConsolidationNotOpen 集运单未处于开放状态
	ErrConsolidationNotOpen = errors.New("consolidation not open")
	// ErrNotificationNotFound 通知不存在
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
)
