package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/domain"
)

// idParam reads a positive int64 path parameter, responding 400 when it is not one.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domain.NewValidationError(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body, responding 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "body", err)
		return false
	}
	return true
}
