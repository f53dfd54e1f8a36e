package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
)

// FavoritesHandler manages the session's favorite quotes.
type FavoritesHandler struct {
	service *app.MoodService
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(service *app.MoodService) *FavoritesHandler {
	return &FavoritesHandler{service: service}
}

// List handles GET /api/v1/favorites. Favorites come back in the order they
// were added.
func (h *FavoritesHandler) List(c *gin.Context) {
	views, err := h.service.Favorites(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.QuoteResponse, len(views))
	for i, v := range views {
		items[i] = toQuoteResponse(v)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Add handles POST /api/v1/favorites.
// Responds 201 when the favorite is new and 200 when it already existed.
//
// @Summary Add a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Param body body dto.AddFavoriteRequest true "Quote to keep"
// @Success 201 {object} dto.QuoteResponse
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites [post]
func (h *FavoritesHandler) Add(c *gin.Context) {
	var req dto.AddFavoriteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	view, added, err := h.service.AddFavorite(c.Request.Context(), middleware.GetSessionID(c), req.Quote())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}

	c.JSON(status, toQuoteResponse(view))
}

// Remove handles DELETE /api/v1/favorites/:id. Removing an unknown id
// still answers 204.
func (h *FavoritesHandler) Remove(c *gin.Context) {
	if err := h.service.RemoveFavorite(c.Request.Context(), middleware.GetSessionID(c), c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Status handles GET /api/v1/favorites/:id.
func (h *FavoritesHandler) Status(c *gin.Context) {
	id := c.Param("id")

	ok, err := h.service.IsFavorite(c.Request.Context(), middleware.GetSessionID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FavoriteStatusResponse{ID: id, Favorite: ok})
}

// RegisterFavoriteRoutes registers favorites routes on the given router group.
func (h *FavoritesHandler) RegisterFavoriteRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	favorites.GET("", h.List)
	favorites.POST("", h.Add)
	favorites.GET("/:id", h.Status)
	favorites.DELETE("/:id", h.Remove)
}
