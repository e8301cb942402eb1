package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
)

// AdminAuthMiddleware checks for a valid admin console JWT signed with the
// given secret and stores the admin claims in the context under "admin".
func AdminAuthMiddleware(jwtSecret string) echo.MiddlewareFunc {
	secret := []byte(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims := &models.AdminClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("admin", claims)

			return next(c)
		}
	}
}

// RequirePermission loads the admin record and enforces one permission flag.
// Super admins pass every check; deactivated accounts pass none.
func RequirePermission(adminRepo repositories.AdminRepository, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("admin").(*models.AdminClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Admin not authenticated")
			}

			admin, err := adminRepo.GetAdminByID(claims.AdminID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Admin account not found")
			}
			if !admin.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "Admin account is deactivated")
			}
			if !admin.Can(permission) {
				return echo.NewHTTPError(http.StatusForbidden, "Missing permission: "+permission)
			}

			return next(c)
		}
	}
}
