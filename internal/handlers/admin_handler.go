package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/novagram/backend/internal/services"
)

// AdminHandler handles admin console HTTP requests
type AdminHandler struct {
	userRepository repositories.UserRepository
	moderation     *services.ModerationService
	deletion       *services.DeletionService
	notifier       *services.NotifierService
	stories        *services.StoryService
	log            *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userRepo repositories.UserRepository,
	moderation *services.ModerationService,
	deletion *services.DeletionService,
	notifier *services.NotifierService,
	stories *services.StoryService,
	log *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		userRepository: userRepo,
		moderation:     moderation,
		deletion:       deletion,
		notifier:       notifier,
		stories:        stories,
		log:            log,
	}
}

// Admin routes are split into four groups so the router can apply one
// permission flag per group.

func (h *AdminHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.PUT("/users/:id/suspend", h.SuspendUser)
	g.PUT("/users/:id/activate", h.ActivateUser)
	g.DELETE("/users/:id", h.DeleteUser)
}

func (h *AdminHandler) RegisterContentRoutes(g *echo.Group) {
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/reports", h.GetPendingReports)
	g.PUT("/reports/:id", h.HandleReport)
	g.POST("/moderate", h.ModerateContent)
}

func (h *AdminHandler) RegisterAnalyticsRoutes(g *echo.Group) {
	g.GET("/reports/stats", h.GetReportStats)
	g.GET("/audit-logs", h.GetAuditLogs)
	g.GET("/audit-logs/stats", h.GetAuditStats)
}

func (h *AdminHandler) RegisterSystemRoutes(g *echo.Group) {
	g.POST("/notifications", h.SendSystemNotification)
	g.POST("/stories/purge", h.PurgeExpiredStories)
}

// ListUsers pages through all registered users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit := pageParams(c)

	users, total, err := h.userRepository.GetUsers(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": users},
		"meta":    echo.Map{"currentPage": page, "itemsPerPage": limit, "totalItems": total},
	})
}

// SuspendUser places a temporary suspension on a user account
func (h *AdminHandler) SuspendUser(c echo.Context) error {
	adminID := getAdminIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req struct {
		Until  time.Time `json:"until" validate:"required"`
		Reason string    `json:"reason" validate:"required,max=500"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userRepository.SetSuspension(uint(targetID), &req.Until, req.Reason); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.audit(c, adminID, "user_suspended", "user", c.Param("id"), map[string]interface{}{
		"until":  req.Until,
		"reason": req.Reason,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"suspended": true}})
}

// ActivateUser lifts a suspension or deactivation
func (h *AdminHandler) ActivateUser(c echo.Context) error {
	adminID := getAdminIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.userRepository.SetSuspension(uint(targetID), nil, ""); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.SetActive(uint(targetID), true); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.audit(c, adminID, "user_activated", "user", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"active": true}})
}

// DeleteUser removes a user and all dependent data through the cascade
// engine, returning the cascade report
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	adminID := getAdminIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	report, err := h.deletion.DeleteUser(c.Request().Context(), uint(targetID))
	if err != nil {
		if err == services.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		// partial progress is in the report; surface both
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   err.Error(),
			"data":    report,
		})
	}

	h.audit(c, adminID, "user_deleted", "user", c.Param("id"), map[string]interface{}{
		"posts_deleted":   report.PostsDeleted,
		"stories_deleted": report.StoriesDeleted,
		"media_released":  report.MediaReleased,
		"media_failed":    report.MediaFailed,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

// DeletePost removes any post through the cascade engine
func (h *AdminHandler) DeletePost(c echo.Context) error {
	adminID := getAdminIDFromContext(c)
	postID := c.Param("id")

	released, failed, err := h.deletion.DeletePost(c.Request().Context(), postID)
	if err != nil {
		if err == services.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.audit(c, adminID, "post_deleted", "post", postID, map[string]interface{}{
		"media_released": released,
		"media_failed":   failed,
	})

	return c.NoContent(http.StatusNoContent)
}

// GetPendingReports pages through the unhandled report queue
func (h *AdminHandler) GetPendingReports(c echo.Context) error {
	page, limit := pageParams(c)

	reports, total, err := h.moderation.GetPendingReports(c.Request().Context(), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"reports": reports},
		"meta":    echo.Map{"currentPage": page, "itemsPerPage": limit, "totalItems": total},
	})
}

// HandleReport resolves or rejects a pending report
func (h *AdminHandler) HandleReport(c echo.Context) error {
	adminID := getAdminIDFromContext(c)

	var req models.HandleReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.moderation.HandleReport(c.Request().Context(), c.Param("id"), req.Action, adminID, req.Notes, c.RealIP())
	if err != nil {
		if err == services.ErrReportNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"handled": true}})
}

// GetReportStats returns aggregate report counts
func (h *AdminHandler) GetReportStats(c echo.Context) error {
	stats, err := h.moderation.GetReportStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}

// ModerateContent applies a moderation action directly to a post or comment
func (h *AdminHandler) ModerateContent(c echo.Context) error {
	adminID := getAdminIDFromContext(c)

	var req struct {
		ContentID   string `json:"content_id" validate:"required"`
		ContentType string `json:"content_type" validate:"required,oneof=post comment"`
		Action      string `json:"action" validate:"required,oneof=approve reject flag"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.moderation.ModerateContent(c.Request().Context(), req.ContentID, req.ContentType, req.Action)
	if err != nil {
		switch err {
		case services.ErrUnsupportedContentType, services.ErrUnsupportedAction:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case services.ErrPostNotFound, services.ErrCommentNotFound:
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.audit(c, adminID, "content_"+req.Action, req.ContentType, req.ContentID, nil)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"moderated": true}})
}

// GetAuditLogs reads the audit trail through optional filters
func (h *AdminHandler) GetAuditLogs(c echo.Context) error {
	page, limit := pageParams(c)
	filter := models.AuditLogFilter{
		Action:     c.QueryParam("action"),
		TargetType: c.QueryParam("target_type"),
		Page:       page,
		Limit:      limit,
	}
	if adminID, err := strconv.ParseUint(c.QueryParam("admin_id"), 10, 32); err == nil {
		filter.AdminID = uint(adminID)
	}
	if from, err := time.Parse(time.RFC3339, c.QueryParam("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.QueryParam("to")); err == nil {
		filter.DateTo = &to
	}

	entries, total, err := h.moderation.GetAuditLogs(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"entries": entries},
		"meta":    echo.Map{"currentPage": page, "itemsPerPage": limit, "totalItems": total},
	})
}

// GetAuditStats returns aggregate audit counts
func (h *AdminHandler) GetAuditStats(c echo.Context) error {
	stats, err := h.moderation.GetAuditStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}

// SendSystemNotification inserts a system notice for one user
func (h *AdminHandler) SendSystemNotification(c echo.Context) error {
	adminID := getAdminIDFromContext(c)

	var req struct {
		RecipientID uint   `json:"recipient_id" validate:"required"`
		Message     string `json:"message" validate:"required,max=500"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.userRepository.GetUserByID(req.RecipientID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := h.notifier.NotifySystem(c.Request().Context(), adminID, req.RecipientID, req.Message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.audit(c, adminID, "system_notification_sent", "user", strconv.FormatUint(uint64(req.RecipientID), 10), nil)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"sent": true}})
}

// PurgeExpiredStories physically removes stories past their expiry
func (h *AdminHandler) PurgeExpiredStories(c echo.Context) error {
	adminID := getAdminIDFromContext(c)

	purged, err := h.stories.PurgeExpired(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.audit(c, adminID, "stories_purged", "story", "", map[string]interface{}{"purged": purged})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"purged": purged}})
}

// audit records an admin action; failures are already logged by the service
func (h *AdminHandler) audit(c echo.Context, adminID uint, action, targetType, targetID string, details map[string]interface{}) {
	if err := h.moderation.LogAuditAction(c.Request().Context(), adminID, action, targetType, targetID, details, c.RealIP()); err != nil {
		h.log.WithError(err).WithField("action", action).Error("audit logging failed")
	}
}
