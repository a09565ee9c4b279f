package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/pkg/jwt"
)

const requestContextKey = "requestContext"

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Parse Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. Verify token
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		// 4. Store actor info in context; tenant header overrides the claim
		tenantID := claims.TenantID
		if header := c.GetHeader("X-Tenant-ID"); header != "" {
			tenantID = header
		}
		c.Set(requestContextKey, &domain.RequestContext{
			ActorID:     claims.ActorID,
			ActorName:   claims.ActorName,
			TenantID:    tenantID,
			Permissions: claims.Permissions,
			RequestID:   c.GetString("request_id"),
		})

		c.Next()
	}
}

// GetRequestContext extracts the authenticated actor context
func GetRequestContext(c *gin.Context) *domain.RequestContext {
	value, exists := c.Get(requestContextKey)
	if !exists {
		return nil
	}
	if ctx, ok := value.(*domain.RequestContext); ok {
		return ctx
	}
	return nil
}

// GetActorID extracts the actor ID from context
func GetActorID(c *gin.Context) string {
	if ctx := GetRequestContext(c); ctx != nil {
		return ctx.ActorID
	}
	return ""
}
