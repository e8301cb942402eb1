package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/novagram/backend/internal/services"
)

// FeedHandler handles feed HTTP requests
type FeedHandler struct {
	feed           *services.FeedService
	userRepository repositories.UserRepository
	likeRepository repositories.LikeRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	feed *services.FeedService,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
) *FeedHandler {
	return &FeedHandler{
		feed:           feed,
		userRepository: userRepo,
		likeRepository: likeRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a post with author info and user-specific flags
type EnrichedPost struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
}

// GetFeed returns the blended, enriched feed page for the current user
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pageParams(c)

	posts, err := h.feed.ComposeFeed(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		if err == services.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Collect unique author IDs (numeric ids stored as strings on posts)
	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[string]bool)
	for _, p := range posts {
		if seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true
		if id, parseErr := strconv.ParseUint(p.UserID, 10, 32); parseErr == nil {
			authorIDs = append(authorIDs, uint(id))
		}
	}

	authors, err := h.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorMap := make(map[string]models.UserCompact, len(authors))
	for i := range authors {
		authorMap[strconv.FormatUint(uint64(authors[i].ID), 10)] = authors[i].ToCompact()
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		liked, _ := h.likeRepository.HasUserLikedPost(p.ID.Hex(), currentUserID)
		enriched[i] = EnrichedPost{
			Post:    p,
			Author:  authorMap[p.UserID],
			IsLiked: liked,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": enriched},
		"meta": echo.Map{
			"currentPage":  page,
			"itemsPerPage": limit,
		},
	})
}
