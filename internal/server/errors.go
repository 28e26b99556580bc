package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	advisingnotedomain "github.com/opencampus/beacon/internal/advisingnote/domain"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string           `json:"type"`
	Message string           `json:"message"`
	Errors  ValidationErrors `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string { return "validation failed" }

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware turns errors attached to the gin context into the
// JSON error envelope. Handlers abort with AbortWithError and never write
// error bodies themselves.
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
	var fieldErrs ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: fieldErrs.Error(),
			Errors:  fieldErrs,
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "student not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, studentdomain.ErrInvalidID),
		errors.Is(err, studentdomain.ErrInvalidPageToken),
		errors.Is(err, riskdomain.ErrInvalidSnapshot),
		errors.Is(err, riskdomain.ErrInvalidTier),
		errors.Is(err, advisingnotedomain.ErrInvalidAuthor),
		errors.Is(err, advisingnotedomain.ErrInvalidNoteText):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, studentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
