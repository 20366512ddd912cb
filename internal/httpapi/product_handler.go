package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/samber/lo"
)

type productHandler struct {
	svc ProductService
}

func (h *productHandler) list(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(products, func(p domain.Product, _ int) productResponse { return toProductResponse(p) }))
}

func (h *productHandler) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *productHandler) create(c *gin.Context) {
	var body productRequest
	if !bindJSON(c, &body) {
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), body.toProduct())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *productHandler) update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var body productRequest
	if !bindJSON(c, &body) {
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), id, body.toPatch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *productHandler) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
