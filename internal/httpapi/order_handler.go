package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type orderHandler struct {
	svc OrderService
}

func (h *orderHandler) place(c *gin.Context) {
	var body placeOrderRequest
	if !bindJSON(c, &body) {
		return
	}

	req, err := body.toDomain()
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.svc.PlaceOrder(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (r placeOrderRequest) toDomain() (domain.PlaceOrderRequest, error) {
	verr := &domain.ValidationError{}

	if r.Total == nil {
		verr.Add("total", "is required")
	}

	var unit currency.Unit
	if r.Currency != "" {
		parsed, err := currency.ParseISO(r.Currency)
		if err != nil {
			verr.Add("currency", "must be an ISO 4217 code")
		}
		unit = parsed
	}

	if !verr.Empty() {
		return domain.PlaceOrderRequest{}, verr
	}

	return domain.PlaceOrderRequest{
		Items: lo.Map(r.Items, func(item cartItemRequest, _ int) domain.CartItem {
			return domain.CartItem{
				ProductID: item.ID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}),
		Total:         *r.Total,
		DeliveryFee:   r.DeliveryFee,
		PaymentMethod: r.PaymentMethod,
		Shipping: domain.ShippingInfo{
			Address: r.ShippingAddress,
			Region:  r.ShippingRegion,
		},
		Currency: unit,
	}, nil
}

// list accepts status and user_id as repeated or comma separated values,
// created_after and created_before as RFC 3339 timestamps.
func (h *orderHandler) list(c *gin.Context) {
	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func orderFilterFromQuery(c *gin.Context) (domain.OrderFilter, error) {
	var filter domain.OrderFilter
	verr := &domain.ValidationError{}

	for _, s := range splitQuery(c.QueryArray("status")) {
		filter.Statuses = append(filter.Statuses, domain.OrderStatus(s))
	}

	for _, s := range splitQuery(c.QueryArray("user_id")) {
		userID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			verr.Add("user_id", "must be an integer")
			continue
		}
		filter.UserIDs = append(filter.UserIDs, userID)
	}

	parseTime := func(key string) *time.Time {
		raw := c.Query(key)
		if raw == "" {
			return nil
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			verr.Add(key, "must be an RFC 3339 timestamp")
			return nil
		}
		return &ts
	}

	after := parseTime("created_after")
	before := parseTime("created_before")
	if after != nil || before != nil {
		filter.CreatedAt = &domain.TimeRange{After: after, Before: before}
	}

	if !verr.Empty() {
		return domain.OrderFilter{}, verr
	}
	return filter, nil
}

func splitQuery(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *orderHandler) listForUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	orders, err := h.svc.ListUserOrders(c.Request.Context(), identityFrom(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *orderHandler) get(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *orderHandler) updateStatus(c *gin.Context) {
	var body orderStatusRequest
	if !bindJSON(c, &body) {
		return
	}

	order, err := h.svc.UpdateOrderStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *orderHandler) delete(c *gin.Context) {
	if err := h.svc.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
