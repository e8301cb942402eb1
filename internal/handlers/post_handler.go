package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/novagram/backend/internal/services"
)

// PostHandler handles post CRUD and like HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	likeRepository repositories.LikeRepository
	engagement     *services.EngagementService
	deletion       *services.DeletionService
	notifier       *services.NotifierService
	log            *logrus.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	engagement *services.EngagementService,
	deletion *services.DeletionService,
	notifier *services.NotifierService,
	log *logrus.Logger,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		likeRepository: likeRepo,
		engagement:     engagement,
		deletion:       deletion,
		notifier:       notifier,
		log:            log,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.GET("/posts/:id/likes", h.GetLikers)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost creates a post and fans out new-post notifications to the
// author's followers
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Content == "" && len(req.ImageURLs) == 0 && len(req.VideoURLs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Post must have content or media")
	}

	post := &models.Post{
		UserID:    strconv.FormatUint(uint64(currentUserID), 10),
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
		VideoURLs: req.VideoURLs,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.userRepository.IncrementPostsCount(currentUserID, 1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.notifier.NotifyNewPost(c.Request().Context(), currentUserID, post.ID.Hex()); err != nil {
		h.log.WithError(err).Warn("new-post fan-out failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
}

// GetUserPosts lists a user's posts with pagination
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	page, limit := pageParams(c)
	skip := int64((page - 1) * limit)

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), strconv.FormatUint(targetID, 10), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    echo.Map{"currentPage": page, "itemsPerPage": limit},
	})
}

// UpdatePost updates a post; only the owner may do so
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.UserID != strconv.FormatUint(uint64(currentUserID), 10) {
		return echo.NewHTTPError(http.StatusForbidden, "Not the post owner")
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ImageURLs != nil {
		post.ImageURLs = req.ImageURLs
	}
	if req.VideoURLs != nil {
		post.VideoURLs = req.VideoURLs
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": post})
}

// DeletePost removes a post through the cascade engine; only the owner may
// do so
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.UserID != strconv.FormatUint(uint64(currentUserID), 10) {
		return echo.NewHTTPError(http.StatusForbidden, "Not the post owner")
	}

	if _, _, err := h.deletion.DeletePost(c.Request().Context(), postID); err != nil {
		if err == services.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleLike flips the caller's like on a post
func (h *PostHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	liked, err := h.engagement.ToggleLike(c.Request().Context(), currentUserID, c.Param("id"))
	if err != nil {
		if err == services.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": liked}})
}

// GetLikers lists the user IDs that currently like a post
func (h *PostHandler) GetLikers(c echo.Context) error {
	postID := c.Param("id")
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	likerIDs, err := h.likeRepository.GetLikerIDs(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := h.userRepository.GetUsersByIDs(likerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	results := make([]models.UserCompact, len(users))
	for i := range users {
		results[i] = users[i].ToCompact()
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"likers": results}})
}
