package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/palette"
)

// MoodHandler serves stateless mood analysis and color lookups.
type MoodHandler struct {
	service *app.MoodService
}

// NewMoodHandler creates a new mood handler.
func NewMoodHandler(service *app.MoodService) *MoodHandler {
	return &MoodHandler{service: service}
}

// Analyze handles POST /api/v1/mood/analyze.
//
// @Summary Analyze the mood of a text
// @Tags mood
// @Accept json
// @Produce json
// @Param body body dto.AnalyzeRequest true "Text to analyze"
// @Success 200 {object} dto.MoodResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/mood/analyze [post]
func (h *MoodHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	view := h.service.Analyze(req.Text)

	c.JSON(http.StatusOK, dto.MoodResponse{
		Analysis: dto.NewAnalysisResponse(view.Analysis),
		Colors:   dto.NewSchemeResponse(view.Colors),
	})
}

// Colors handles GET /api/v1/mood/colors.
// Without a mood the neutral scheme at the default intensity is returned.
func (h *MoodHandler) Colors(c *gin.Context) {
	var q dto.ColorsQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	if q.Mood == "" {
		c.JSON(http.StatusOK, dto.NewSchemeResponse(palette.ForAnalysis(nil)))
		return
	}

	intensity := palette.DefaultIntensity
	if q.Intensity != nil {
		intensity = *q.Intensity
	}

	c.JSON(http.StatusOK, dto.NewSchemeResponse(palette.ColorsFor(q.MoodValue(), intensity)))
}

// RegisterMoodRoutes registers mood routes on the given router group.
func (h *MoodHandler) RegisterMoodRoutes(rg *gin.RouterGroup) {
	mood := rg.Group("/mood")
	mood.POST("/analyze", h.Analyze)
	mood.GET("/colors", h.Colors)
}
