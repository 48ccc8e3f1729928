package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/contour-tours/backend/internal/authz"
)

// ContextActor is the gin context key under which the session gate stores the
// resolved authz.Actor. It lives here (not in middleware) so handler packages
// can read it without importing the middleware package.
const ContextActor = "actor"

// MustActor returns the Actor resolved by the session gate. It panics if the
// route was not wired behind the gate, which is a programming error.
func MustActor(c *gin.Context) authz.Actor {
	return c.MustGet(ContextActor).(authz.Actor)
}

// ActorFromClaims converts validated token claims into the explicit Actor
// passed to every authorization predicate.
func ActorFromClaims(claims *Claims) authz.Actor {
	return authz.Actor{
		UserID:         claims.UserID,
		IsSuperAdmin:   claims.IsSuperAdmin,
		OrganizationID: claims.OrganizationID,
		Role:           claims.Role,
	}
}
