package repository

import "time"

// GatewayListFilter 查询支付网关列表的过滤条件
type GatewayListFilter struct {
	Page       int
	PageSize   int
	Country    string
	Currency   string
	ActiveOnly bool
}

// CountrySettingListFilter 查询国家配置列表的过滤条件
type CountrySettingListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// QuoteListFilter 查询报价单列表的过滤条件
type QuoteListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	GuestEmail  string
	Status      string
	DestCountry string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PaymentListFilter 查询支付记录列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	GatewayCode string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ProofListFilter 查询支付凭证列表的过滤条件
type ProofListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	GatewayCode string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ParcelListFilter 查询包裹列表的过滤条件
type ParcelListFilter struct {
	Page            int
	PageSize        int
	UserID          uint
	Status          string
	TrackingNo      string
	ConsolidationID uint
}

// ConsolidationListFilter 查询集运单列表的过滤条件
type ConsolidationListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	DestCountry string
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	Type       string
	UnreadOnly bool
}
