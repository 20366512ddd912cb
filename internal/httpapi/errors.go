package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/service"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts go out as JSON numbers: "total": 20
	decimal.MarshalJSONWithoutQuotes = true
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type publicError struct {
	err     error
	message string
}

// checked in order, the first match wins
var publicErrors = []publicError{
	{domain.ErrInsufficientStock, "insufficient stock"},
	{domain.ErrOrderExists, "order id already exists"},
	{domain.ErrEmailTaken, "email already registered"},
	{domain.ErrFavoriteExists, "product already in favorites"},
	{domain.ErrUserHasOrders, "user still owns orders"},
	{domain.ErrOrderNotFound, "order not found"},
	{domain.ErrProductNotFound, "product not found"},
	{domain.ErrUserNotFound, "user not found"},
	{domain.ErrFavoriteNotFound, "favorite not found"},
	{service.ErrInvalidCredentials, "invalid email or password"},
	{service.ErrAccountDisabled, "account is disabled"},
	{service.ErrLastAdmin, "cannot delete the last admin"},
}

var errorKinds = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
}

// respondError writes the status for the error kind. Messages of unclassified
// errors stay in the log.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
		return
	}

	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			c.AbortWithStatusJSON(kind.status, errorResponse{Error: publicMessage(err, kind.err)})
			return
		}
	}

	slog.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"request_id", c.GetString(requestIDKey),
		"error", err)

	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func publicMessage(err, kind error) string {
	for _, p := range publicErrors {
		if errors.Is(err, p.err) {
			return p.message
		}
	}
	return kind.Error()
}

func badRequest(c *gin.Context, field string, err error) {
	respondError(c, domain.NewValidationError(field, err.Error()))
}
