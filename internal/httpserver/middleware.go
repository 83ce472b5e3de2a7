package httpserver

import (
	"context"
	"net/http"
	"strings"

	"weetzen-shop/internal/domain"
	cartsvc "weetzen-shop/internal/service/cart"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserID = "userID"

// authRequired validates the bearer token and injects the user id.
func authRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromHeader(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// authOptional injects the user id when a valid token is present and lets
// guests through untouched.
func authOptional(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := userIDFromHeader(c, secret); ok {
			c.Set(ctxUserID, userID)
		}
		c.Next()
	}
}

// adminRequired gates a route on profiles.is_admin. Runs after authRequired.
func adminRequired(profiles profileGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		p, err := profiles.Get(c.Request.Context(), userID)
		if err != nil || !p.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

type profileGetter interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

func userIDFromHeader(c *gin.Context, secret string) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return "", false
	}
	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	userID, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", false
	}
	return userID, true
}

// cartOwner resolves whose cart a request targets: the authenticated user, or
// a guest identified by the X-Guest-Id header.
func cartOwner(c *gin.Context) (cartsvc.Owner, bool) {
	if userID := c.GetString(ctxUserID); userID != "" {
		return cartsvc.Owner{ID: userID}, true
	}
	if guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id")); guestID != "" {
		return cartsvc.Owner{ID: guestID, Guest: true}, true
	}
	return cartsvc.Owner{}, false
}
