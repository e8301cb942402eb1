package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/services"
)

// StoryHandler handles story HTTP requests
type StoryHandler struct {
	stories *services.StoryService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(stories *services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories/me", h.GetMyStories)
	g.GET("/stories/following", h.GetFollowingStories)
	g.POST("/stories/:id/view", h.MarkViewed)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// CreateStory creates a story that expires 24 hours from now
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	story, err := h.stories.CreateStory(c.Request().Context(), currentUserID, req.MediaURL, req.Type)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": story})
}

// GetMyStories lists the caller's unexpired stories
func (h *StoryHandler) GetMyStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stories, err := h.stories.GetUserStories(c.Request().Context(), currentUserID)
	if err != nil {
		if err == services.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": stories}})
}

// GetFollowingStories lists unexpired stories from everyone the caller
// follows
func (h *StoryHandler) GetFollowingStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stories, err := h.stories.GetStoriesOfFollowing(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": stories}})
}

// MarkViewed records the caller in the story's viewer set
func (h *StoryHandler) MarkViewed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.stories.MarkViewed(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		if err == services.ErrStoryNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"viewed": true}})
}

// DeleteStory removes the caller's own story
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.stories.DeleteStory(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		if err == services.ErrStoryNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
