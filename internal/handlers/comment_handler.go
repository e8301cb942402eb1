package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/novagram/backend/internal/services"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	engagement        *services.EngagementService
	deletion          *services.DeletionService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	engagement *services.EngagementService,
	deletion *services.DeletionService,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		engagement:        engagement,
		deletion:          deletion,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetPostComments)
	g.GET("/comments/:id/replies", h.GetReplies)
	g.POST("/comments/:id/like", h.ToggleLike)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment or threaded reply on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.engagement.AddComment(c.Request().Context(), currentUserID, &req)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case services.ErrCommentNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found on this post")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetPostComments lists a post's comments, oldest first
func (h *CommentHandler) GetPostComments(c echo.Context) error {
	page, limit := pageParams(c)

	comments, total, err := h.commentRepository.GetCommentsByPostID(c.Param("id"), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"comments": comments},
		"meta":    echo.Map{"currentPage": page, "itemsPerPage": limit, "totalItems": total},
	})
}

// GetReplies lists the direct replies of a comment
func (h *CommentHandler) GetReplies(c echo.Context) error {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	replies, err := h.commentRepository.GetReplies(uint(commentID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"replies": replies}})
}

// ToggleLike flips the caller's like on a comment
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	liked, err := h.engagement.ToggleCommentLike(c.Request().Context(), currentUserID, uint(commentID))
	if err != nil {
		if err == services.ErrCommentNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": liked}})
}

// UpdateComment edits a comment's content; only the author may do so
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the comment author")
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": comment})
}

// DeleteComment removes a comment through the cascade engine, applying the
// configured reply policy
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the comment author")
	}

	if err := h.deletion.DeleteComment(c.Request().Context(), uint(commentID)); err != nil {
		if err == services.ErrCommentNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
