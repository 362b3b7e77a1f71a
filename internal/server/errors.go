package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	accountdomain "github.com/genesispos/contable/internal/account/domain"
	costdomain "github.com/genesispos/contable/internal/costcenter/domain"
	investmentdomain "github.com/genesispos/contable/internal/investment/domain"
	journaldomain "github.com/genesispos/contable/internal/journal/domain"
	posdomain "github.com/genesispos/contable/internal/posdata/domain"
	reportingdomain "github.com/genesispos/contable/internal/reporting/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var unbalanced *journaldomain.UnbalancedEntryError
	if errors.As(err, &unbalanced) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unbalanced_entry",
			Message: unbalanced.Error(),
		}
	}

	var partial *journaldomain.PartialWriteError
	if errors.As(err, &partial) {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	switch {
	case isValidationError(err):
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, accountdomain.ErrInvalidID),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidType),
		errors.Is(err, journaldomain.ErrInvalidID),
		errors.Is(err, journaldomain.ErrInvalidDate),
		errors.Is(err, journaldomain.ErrTooFewLines),
		errors.Is(err, journaldomain.ErrInvalidLine),
		errors.Is(err, journaldomain.ErrAccountNotFound),
		errors.Is(err, investmentdomain.ErrInvalidAmount),
		errors.Is(err, costdomain.ErrInvalidID),
		errors.Is(err, costdomain.ErrInvalidName),
		errors.Is(err, costdomain.ErrInvalidAmount),
		errors.Is(err, costdomain.ErrInvalidDate),
		errors.Is(err, posdomain.ErrInvalidTotal),
		errors.Is(err, posdomain.ErrInvalidName),
		errors.Is(err, posdomain.ErrInvalidProduct),
		errors.Is(err, reportingdomain.ErrInvalidGranularity):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, accountdomain.ErrDuplicateCode),
		errors.Is(err, accountdomain.ErrProtectedAccount),
		errors.Is(err, accountdomain.ErrNonZeroBalance),
		errors.Is(err, accountdomain.ErrAccountReferenced),
		errors.Is(err, journaldomain.ErrPeriodClosed),
		errors.Is(err, journaldomain.ErrAlreadyReversed):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, journaldomain.ErrNotFound),
		errors.Is(err, costdomain.ErrNotFound),
		errors.Is(err, investmentdomain.ErrNoConfig),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
