package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"inkpost/internal/errors"
)

// Drafter produces a draft summary, reporting whether it is a real summary
// or the fallback message.
type Drafter interface {
	Draft(ctx context.Context, content string) (string, bool)
}

// SummaryHandler handles AI summary drafts for the post editor.
type SummaryHandler struct {
	drafter Drafter
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(drafter Drafter) *SummaryHandler {
	return &SummaryHandler{drafter: drafter}
}

// SummaryRequest carries the markdown being edited.
type SummaryRequest struct {
	Content string `json:"content" validate:"required"`
}

// SummaryResponse holds the draft. Generated is false when Summary is the
// fallback message.
type SummaryResponse struct {
	Summary   string `json:"summary"`
	Generated bool   `json:"generated"`
}

// DraftSummary godoc
// @Summary Draft a summary for post content
// @Description Always 200; on failure the summary is a user-facing fallback message.
// @Tags summaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SummaryRequest true "Markdown content"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /summaries [post]
func (h *SummaryHandler) DraftSummary(c echo.Context) error {
	var req SummaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	summary, generated := h.drafter.Draft(c.Request().Context(), req.Content)
	return c.JSON(http.StatusOK, SummaryResponse{Summary: summary, Generated: generated})
}
