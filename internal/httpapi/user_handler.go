package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/samber/lo"
)

type userHandler struct {
	svc UserService
}

type userStatusRequest struct {
	Status string `json:"status"`
}

type shippingRequest struct {
	ShippingRegion string `json:"shipping_region"`
}

func (h *userHandler) list(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(users, func(u domain.UserSummary, _ int) userSummaryResponse {
		return userSummaryResponse{
			userResponse: toUserResponse(u.User),
			TotalOrders:  u.TotalOrders,
			TotalSpent:   u.TotalSpent,
		}
	}))
}

func (h *userHandler) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *userHandler) updateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var body userStatusRequest
	if !bindJSON(c, &body) {
		return
	}

	user, err := h.svc.UpdateUserStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *userHandler) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *userHandler) updateShipping(c *gin.Context) {
	var body shippingRequest
	if !bindJSON(c, &body) {
		return
	}

	user, err := h.svc.UpdateShippingRegion(c.Request.Context(), identityFrom(c), body.ShippingRegion)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
