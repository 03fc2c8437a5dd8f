package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/service"
)

const principalKey = "ajenda.principal"

// DecisionObserver is notified of every authorization outcome.
type DecisionObserver interface {
	ObserveDecision(outcome string)
}

// Authenticate resolves the caller from the Authorization header and binds
// the Principal to the request. It never rejects; Require does.
func Authenticate(authenticator service.RequestAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p := authenticator.Authenticate(c.Request.Context(), c.GetHeader("Authorization")); p != nil {
			SetPrincipal(c, p)
		}
		c.Next()
	}
}

// SetPrincipal binds p to the request context.
func SetPrincipal(c *gin.Context, p *auth.Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the Principal bound to the request, or nil.
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}

// Require aborts with 401 or 403 unless the bound Principal meets requirement.
func Require(requirement auth.Requirement, observer DecisionObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := auth.Check(CurrentPrincipal(c), requirement)
		if observer != nil {
			observer.ObserveDecision(outcome(decision))
		}
		if decision.Allowed {
			c.Next()
			return
		}
		AbortWithDecision(c, decision)
	}
}

// AbortWithDecision writes the status matching a denied decision.
func AbortWithDecision(c *gin.Context, decision auth.Decision) {
	switch {
	case errors.Is(decision.Reason, auth.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
	case errors.Is(decision.Reason, auth.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func outcome(d auth.Decision) string {
	switch {
	case d.Allowed:
		return "allowed"
	case errors.Is(d.Reason, auth.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(d.Reason, auth.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
