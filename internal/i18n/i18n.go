package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = "en"

var messages = map[string]map[string]string{
	"en": {
		"error.bad_request":            "Invalid request.",
		"error.invalid_request_body":   "Invalid request body.",
		"error.unauthorized":           "Unauthorized.",
		"error.forbidden":              "Forbidden.",
		"error.not_found":              "Resource not found.",
		"error.internal":               "Internal server error.",
		"error.rate_limited":           "Too many requests, please try again later.",
		"error.rate_limit_unavailable": "Service temporarily unavailable.",
		"error.jwt_secret_missing":     "Authentication is not configured.",
		"error.token_invalid":          "Invalid or expired token.",
		"error.token_revoked":          "Token has been revoked.",
		"error.auth_header_missing":    "Authorization header is missing.",
		"error.auth_header_invalid":    "Authorization header is invalid.",
		"error.user_disabled":          "Account is disabled.",
		"error.user_not_found":         "User not found.",
		"error.user_id_invalid":        "Invalid user identity.",
		"error.user_id_type_invalid":   "Invalid user identity.",
		"error.payment_create_failed":  "Failed to create payment.",

		"error.gateway_not_found":       "Payment gateway not found.",
		"error.gateway_unavailable":     "Payment gateway is not available for this request.",
		"error.gateway_config_invalid":  "Payment gateway configuration is invalid.",
		"error.country_not_found":       "Country settings not found.",
		"error.quote_not_found":         "Quote not found.",
		"error.quote_not_payable":       "Quote is not payable.",
		"error.payment_not_found":       "Payment not found.",
		"error.payment_invalid":         "Payment request is invalid.",
		"error.payment_failed":          "Payment could not be created.",
		"error.proof_not_found":         "Payment proof not found.",
		"error.proof_already_reviewed":  "Payment proof has already been reviewed.",
		"error.parcel_not_found":        "Package not found.",
		"error.parcel_exists":           "Package with this tracking number already exists.",
		"error.parcel_not_consolidable": "Package cannot be added to a consolidation.",
		"error.consolidation_not_found": "Consolidation not found.",
		"error.consolidation_not_open":  "Consolidation is not open.",
		"error.notification_not_found":  "Notification not found.",
	},
	"ne": {
		"error.bad_request":   "अवैध अनुरोध।",
		"error.unauthorized":  "अनधिकृत।",
		"error.forbidden":     "निषेधित।",
		"error.not_found":     "स्रोत फेला परेन।",
		"error.internal":      "आन्तरिक सर्भर त्रुटि।",
		"error.rate_limited":  "धेरै अनुरोधहरू, कृपया पछि प्रयास गर्नुहोस्।",
		"error.token_invalid": "अवैध वा म्याद सकिएको टोकन।",

		"error.gateway_not_found":   "भुक्तानी गेटवे फेला परेन।",
		"error.gateway_unavailable": "यो अनुरोधका लागि भुक्तानी गेटवे उपलब्ध छैन।",
		"error.quote_not_found":     "कोटेशन फेला परेन।",
		"error.quote_not_payable":   "कोटेशन भुक्तानी योग्य छैन।",
		"error.payment_invalid":     "भुक्तानी अनुरोध अवैध छ।",
		"error.payment_failed":      "भुक्तानी सिर्जना गर्न सकिएन।",
		"error.proof_not_found":     "भुक्तानी प्रमाण फेला परेन।",
		"error.parcel_not_found":    "प्याकेज फेला परेन।",
	},
	"zh-CN": {
		"error.bad_request":            "无效的请求。",
		"error.invalid_request_body":   "请求体格式错误。",
		"error.unauthorized":           "未授权。",
		"error.forbidden":              "无权访问。",
		"error.not_found":              "资源不存在。",
		"error.internal":               "服务器内部错误。",
		"error.rate_limited":           "请求过于频繁，请稍后再试。",
		"error.rate_limit_unavailable": "服务暂时不可用。",
		"error.jwt_secret_missing":     "认证服务未配置。",
		"error.token_invalid":          "令牌无效或已过期。",
		"error.token_revoked":          "令牌已失效。",
		"error.auth_header_missing":    "缺少 Authorization 请求头。",
		"error.auth_header_invalid":    "Authorization 请求头格式错误。",
		"error.user_disabled":          "账号已被禁用。",
		"error.user_not_found":         "用户不存在。",
		"error.user_id_invalid":        "用户身份无效。",
		"error.user_id_type_invalid":   "用户身份无效。",
		"error.payment_create_failed":  "支付创建失败。",

		"error.gateway_not_found":       "支付网关不存在。",
		"error.gateway_unavailable":     "该支付网关当前不可用。",
		"error.gateway_config_invalid":  "支付网关配置无效。",
		"error.country_not_found":       "国家配置不存在。",
		"error.quote_not_found":         "报价单不存在。",
		"error.quote_not_payable":       "报价单当前不可支付。",
		"error.payment_not_found":       "支付记录不存在。",
		"error.payment_invalid":         "支付请求无效。",
		"error.payment_failed":          "支付创建失败。",
		"error.proof_not_found":         "支付凭证不存在。",
		"error.proof_already_reviewed":  "支付凭证已审核。",
		"error.parcel_not_found":        "包裹不存在。",
		"error.parcel_exists":           "该运单号的包裹已存在。",
		"error.parcel_not_consolidable": "包裹当前不可合箱。",
		"error.consolidation_not_found": "集运单不存在。",
		"error.consolidation_not_open":  "集运单未处于开放状态。",
		"error.notification_not_found":  "通知不存在。",
	},
}

// T 按语言取翻译文案；缺失时回退英文，再回退 key 本身
func T(locale, key string) string {
	if table, ok := messages[normalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 取翻译文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// ResolveLocale 从请求解析语言（?lang= 优先，其次 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		if normalized := match(lang); normalized != "" {
			return normalized
		}
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if normalized := match(lang); normalized != "" {
			return normalized
		}
	}
	return DefaultLocale
}

func normalizeLocale(locale string) string {
	if normalized := match(locale); normalized != "" {
		return normalized
	}
	return DefaultLocale
}

func match(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	lower := strings.ToLower(lang)
	switch {
	case lower == "en" || strings.HasPrefix(lower, "en-"):
		return "en"
	case lower == "ne" || strings.HasPrefix(lower, "ne-"):
		return "ne"
	case lower == "zh" || strings.HasPrefix(lower, "zh-"):
		return "zh-CN"
	}
	return ""
}
