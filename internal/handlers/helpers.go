package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/novagram/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims stored by the auth middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// getAdminIDFromContext extracts the authenticated admin's ID
func getAdminIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("admin").(*models.AdminClaims)
	if !ok {
		return 0
	}
	return claims.AdminID
}

// pageParams reads page/limit query params with the usual defaults
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}
