package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// HistoryHandler pages through the session's viewed quotes.
type HistoryHandler struct {
	service *app.MoodService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(service *app.MoodService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List handles GET /api/v1/history?limit=&cursor=.
// Entries are most recent first. The cursor is an offset, so a view recorded
// between two page requests shifts the following page by one.
//
// @Summary List viewed quotes
// @Tags history
// @Produce json
// @Param limit query int false "Page size (1-100)"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} dto.PaginatedResponse[dto.HistoryEntryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &page); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	offset, err := page.Offset()
	if err != nil {
		dto.HandleError(c, domain.NewValidationError("cursor", err.Error()))
		return
	}

	entries, err := h.service.History(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.HistoryEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = dto.NewHistoryEntryResponse(e)
	}

	c.JSON(http.StatusOK, dto.PageOf(items, offset, page.GetLimit(), func(e dto.HistoryEntryResponse) string {
		return e.ID
	}))
}

// RegisterHistoryRoutes registers history routes on the given router group.
func (h *HistoryHandler) RegisterHistoryRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.List)
}
