package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/samber/lo"
)

type favoriteHandler struct {
	svc FavoriteService
}

type favoriteRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *favoriteHandler) list(c *gin.Context) {
	favorites, err := h.svc.ListFavorites(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(favorites, func(f domain.Favorite, _ int) favoriteResponse { return toFavoriteResponse(f) }))
}

func (h *favoriteHandler) add(c *gin.Context) {
	var body favoriteRequest
	if !bindJSON(c, &body) {
		return
	}

	favorite, err := h.svc.AddFavorite(c.Request.Context(), identityFrom(c), body.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toFavoriteResponse(favorite))
}

func (h *favoriteHandler) remove(c *gin.Context) {
	productID, ok := idParam(c, "product_id")
	if !ok {
		return
	}

	if err := h.svc.RemoveFavorite(c.Request.Context(), identityFrom(c), productID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
