package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/novagram/backend/internal/media"
)

// MediaHandler handles media asset upload and release
type MediaHandler struct {
	store media.Store
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(store media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// RegisterMediaRoutes registers media-related routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/media/upload", h.Upload)
	g.DELETE("/media", h.Delete)
}

// Upload receives a multipart file and stores it under the caller's prefix.
// The "kind" form field separates publication media from story media.
func (h *MediaHandler) Upload(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind := c.FormValue("kind")
	if kind != media.KindPublication && kind != media.KindStory {
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be publication or story")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.store.Upload(c.Request().Context(), data, contentType, currentUserID, kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": result})
}

// Delete releases an uploaded asset by its URL. Deleting an asset that is
// already gone succeeds.
func (h *MediaHandler) Delete(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		URL  string `json:"url" validate:"required,url"`
		Type string `json:"type" validate:"required,oneof=image video"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	assetID := media.DeriveAssetID(req.URL)
	if assetID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "URL does not reference a managed asset")
	}

	if err := h.store.Delete(c.Request().Context(), assetID, req.Type); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
