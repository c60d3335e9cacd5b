package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	chargedomain "github.com/smallbiznis/cloudslip/internal/additionalcharge/domain"
	profiledomain "github.com/smallbiznis/cloudslip/internal/billingprofile/domain"
	companydomain "github.com/smallbiznis/cloudslip/internal/company/domain"
	depositdomain "github.com/smallbiznis/cloudslip/internal/deposit/domain"
	ratedomain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
	proratadomain "github.com/smallbiznis/cloudslip/internal/prorata/domain"
	slipdomain "github.com/smallbiznis/cloudslip/internal/slip/domain"
	splitdomain "github.com/smallbiznis/cloudslip/internal/splitbilling/domain"
	usagedomain "github.com/smallbiznis/cloudslip/internal/usage/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}
	case isUnprocessableError(err):
		return http.StatusUnprocessableEntity, errorPayload{Type: "unprocessable", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, depositdomain.ErrInvalidAmount),
		errors.Is(err, depositdomain.ErrInvalidOwner),
		errors.Is(err, usagedomain.ErrEmptyImport),
		errors.Is(err, usagedomain.ErrInvalidBillingType),
		errors.Is(err, splitdomain.ErrPercentageOverflow),
		errors.Is(err, splitdomain.ErrNoAllocations),
		errors.Is(err, ratedomain.ErrInvalidDateRule),
		errors.Is(err, ratedomain.ErrInvalidRateType),
		errors.Is(err, slipdomain.ErrInvalidSlipType):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, companydomain.ErrCompanyNotFound),
		errors.Is(err, companydomain.ErrContractNotFound),
		errors.Is(err, companydomain.ErrAccountNotFound),
		errors.Is(err, companydomain.ErrMappingNotFound),
		errors.Is(err, partnerdomain.ErrPartnerNotFound),
		errors.Is(err, profiledomain.ErrProfileNotFound),
		errors.Is(err, depositdomain.ErrDepositNotFound),
		errors.Is(err, proratadomain.ErrPeriodNotFound),
		errors.Is(err, splitdomain.ErrRuleNotFound),
		errors.Is(err, chargedomain.ErrChargeNotFound),
		errors.Is(err, ratedomain.ErrRateNotFound),
		errors.Is(err, slipdomain.ErrBatchNotFound),
		errors.Is(err, slipdomain.ErrRecordNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, partnerdomain.ErrPartnerExists),
		errors.Is(err, profiledomain.ErrProfileExists),
		errors.Is(err, proratadomain.ErrPeriodExists),
		errors.Is(err, slipdomain.ErrConfirmedImmutable):
		return true
	default:
		return false
	}
}

func isUnprocessableError(err error) bool {
	switch {
	case errors.Is(err, depositdomain.ErrInsufficientBalance),
		errors.Is(err, slipdomain.ErrNoUsageData),
		errors.Is(err, slipdomain.ErrPartnerMissing),
		errors.Is(err, slipdomain.ErrBatchUnconfirmed),
		errors.Is(err, companydomain.ErrAccountUnmapped),
		errors.Is(err, ratedomain.ErrSourceDisabled):
		return true
	default:
		return false
	}
}
