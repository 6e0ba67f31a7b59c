package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eswika/pkg/logger"
	jsonres "eswika/pkg/response"
	"eswika/pkg/utils"

	"github.com/labstack/echo/v4"
)

// TokenValidator checks a token against the Redis session store.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

func parseBearer(c echo.Context) (string, *utils.JWTClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
	}

	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || time.Now().After(expAt.Time) {
		return "", nil, echo.NewHTTPError(http.StatusForbidden, "token expired")
	}

	return tokenString, claims, nil
}

func setPrincipal(c echo.Context, token string, claims *utils.JWTClaims) error {
	userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		logger.Error("Invalid user ID in token", err)
		return echo.NewHTTPError(http.StatusForbidden, "invalid user ID in token")
	}

	c.Set("user_id", uint(userIDUint))
	c.Set("role", claims.Role)
	c.Set("is_admin", claims.IsAdmin)
	c.Set("token", token)

	return nil
}

// AuthMiddleware validates the JWT signature and expiry only.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, claims, err := parseBearer(c)
			if err != nil {
				return err
			}

			if err := setPrincipal(c, token, claims); err != nil {
				return err
			}

			return next(c)
		}
	}
}

// AuthMiddlewareWithRedis additionally requires the token to still be
// present in the session store, so logout and revocation take effect
// immediately.
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, claims, err := parseBearer(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := tokenValidator.ValidateToken(ctx, token)
			if err != nil {
				logger.Error("Token not found in Redis", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Token expired or invalid", nil,
				))
			}

			if userID != claims.UserID {
				logger.Error("UserID mismatch between JWT and Redis")
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if err := setPrincipal(c, token, claims); err != nil {
				return err
			}

			return next(c)
		}
	}
}

// AdminOnly gates routes on the is_admin token claim.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, ok := c.Get("is_admin").(bool)
			if !ok || !isAdmin {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}
