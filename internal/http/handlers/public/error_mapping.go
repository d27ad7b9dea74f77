package public

import (
	"errors"

	"github.com/himalbox/internal/http/response"
	"github.com/himalbox/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var paymentCreateErrorRules = []mappedHandlerError{
	{target: service.ErrQuoteNotFound, code: response.CodeNotFound, key: "error.quote_not_found"},
	{target: service.ErrQuoteNotPayable, code: response.CodeBadRequest, key: "error.quote_not_payable"},
	{target: service.ErrGatewayNotFound, code: response.CodeNotFound, key: "error.gateway_not_found"},
	{target: service.ErrGatewayUnavailable, code: response.CodeBadRequest, key: "error.gateway_unavailable"},
	{target: service.ErrGatewayConfigInvalid, code: response.CodeBadRequest, key: "error.gateway_config_invalid"},
	{target: service.ErrPaymentFailed, code: response.CodeBadRequest, key: "error.payment_failed"},
}

var quoteErrorRules = []mappedHandlerError{
	{target: service.ErrQuoteNotFound, code: response.CodeNotFound, key: "error.quote_not_found"},
	{target: service.ErrQuoteNotPayable, code: response.CodeBadRequest, key: "error.quote_not_payable"},
}

var proofErrorRules = []mappedHandlerError{
	{target: service.ErrQuoteNotFound, code: response.CodeNotFound, key: "error.quote_not_found"},
	{target: service.ErrQuoteNotPayable, code: response.CodeBadRequest, key: "error.quote_not_payable"},
	{target: service.ErrProofNotFound, code: response.CodeBadRequest, key: "error.proof_not_found"},
}

var parcelErrorRules = []mappedHandlerError{
	{target: service.ErrParcelNotFound, code: response.CodeNotFound, key: "error.parcel_not_found"},
	{target: service.ErrParcelExists, code: response.CodeBadRequest, key: "error.parcel_exists"},
	{target: service.ErrParcelNotConsolidable, code: response.CodeBadRequest, key: "error.parcel_not_consolidable"},
	{target: service.ErrConsolidationNotFound, code: response.CodeNotFound, key: "error.consolidation_not_found"},
	{target: service.ErrConsolidationNotOpen, code: response.CodeBadRequest, key: "error.consolidation_not_open"},
}

func respondPaymentCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentCreateErrorRules, response.CodeInternal, "error.payment_create_failed")
}

func respondQuoteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, quoteErrorRules, response.CodeInternal, "error.internal")
}

func respondProofError(c *gin.Context, err error) {
	respondWithMappedError(c, err, proofErrorRules, response.CodeInternal, "error.internal")
}

func respondParcelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, parcelErrorRules, response.CodeInternal, "error.internal")
}
