package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/services"
)

// ReportHandler handles user-facing content reporting
type ReportHandler struct {
	moderation *services.ModerationService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(moderation *services.ModerationService) *ReportHandler {
	return &ReportHandler{moderation: moderation}
}

// RegisterReportRoutes registers report-related routes
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/reports", h.CreateReport)
}

// CreateReport files a report against a piece of content or a user
func (h *ReportHandler) CreateReport(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.moderation.ReportContent(c.Request().Context(), currentUserID, req.TargetID, req.TargetType, req.Reason, req.Severity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": report})
}
