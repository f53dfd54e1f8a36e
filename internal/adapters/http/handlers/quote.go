package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.MoodService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.MoodService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

func toQuoteResponse(v app.QuoteView) dto.QuoteResponse {
	return dto.NewQuoteResponse(v.AnalyzedQuote, v.Colors, v.Reused)
}

type todayQuery struct {
	Refresh bool `form:"refresh" json:"refresh"`
}

// Today handles GET /api/v1/quotes/today.
// Returns the session's quote of the day, fetching a new one on the first
// visit of a calendar day or when refresh=true.
//
// @Summary Get today's quote
// @Tags quotes
// @Produce json
// @Param refresh query bool false "Fetch a new quote even if one was shown today"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes/today [get]
func (h *QuoteHandler) Today(c *gin.Context) {
	var q todayQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	view, err := h.service.Today(c.Request.Context(), middleware.GetSessionID(c), q.Refresh)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(view))
}

// Random handles GET /api/v1/quotes/random.
// Fetches a new quote and makes it the session's current quote. The source
// being down yields a fallback quote, not an error.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) Random(c *gin.Context) {
	view, err := h.service.Random(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(view))
}

// ByCategory handles GET /api/v1/quotes/category/:tag.
//
// @Summary Get a quote from a category
// @Tags quotes
// @Produce json
// @Param tag path string true "Category tag"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes/category/{tag} [get]
func (h *QuoteHandler) ByCategory(c *gin.Context) {
	view, err := h.service.ByCategory(c.Request.Context(), middleware.GetSessionID(c), c.Param("tag"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(view))
}

// Current handles GET /api/v1/quotes/current.
//
// @Summary Get the session's current quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/current [get]
func (h *QuoteHandler) Current(c *gin.Context) {
	view, ok, err := h.service.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if !ok {
		dto.HandleError(c, domain.NewNotFoundError("current quote", ""))
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(view))
}

// Availability handles GET /api/v1/quotes/availability.
// Always 200; the body says whether the quote source answered its probe.
func (h *QuoteHandler) Availability(c *gin.Context) {
	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		Available: h.service.Available(c.Request.Context()),
	})
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("/today", h.Today)
	quotes.GET("/random", h.Random)
	quotes.GET("/category/:tag", h.ByCategory)
	quotes.GET("/current", h.Current)
	quotes.GET("/availability", h.Availability)
}
