package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/contour-tours/backend/internal/auth"
	"github.com/contour-tours/backend/pkg/response"
)

// Session returns the gate that validates the bearer token, rejects revoked
// sessions, and stores the resolved authz.Actor in the gin context. Every
// downstream authorization check reads that explicit value; nothing relies on
// ambient state.
func Session(jwtService *auth.JWTService, sessions *auth.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Error("session revocation check", zap.Error(err))
			response.Internal(c, "session check failed")
			c.Abort()
			return
		}
		if revoked {
			response.Unauthorized(c, "session has been logged out")
			c.Abort()
			return
		}
		c.Set(auth.ContextActor, auth.ActorFromClaims(claims))
		c.Next()
	}
}

// RequireSuperAdmin guards the platform administration surface.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.MustActor(c).IsSuperAdmin {
			response.Forbidden(c, "super administrator only")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireOrganization guards the organization dashboard surface: the actor
// must belong to some organization, and the super administrator is kept out
// by route segregation rather than by the predicate layer.
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auth.MustActor(c)
		if actor.IsSuperAdmin {
			response.Forbidden(c, "organization routes are not available to the super administrator")
			c.Abort()
			return
		}
		if actor.OrganizationID == nil {
			response.Forbidden(c, "no organization membership")
			c.Abort()
			return
		}
		c.Next()
	}
}
