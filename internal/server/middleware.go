package server

import (
	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/callerctx"
	"github.com/gin-gonic/gin"
)

// callerHeader carries the authenticated member's email, set by the edge
// proxy after it verifies the session.
const callerHeader = "X-User-Email"

// CallerRequired rejects requests without a verified caller identity and
// stores the normalized email on the request context.
func CallerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := alumnidomain.NormalizeEmail(c.GetHeader(callerHeader))
		if !alumnidomain.IsValidEmail(email) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := callerctx.WithEmail(c.Request.Context(), email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CallerOptional stores the caller identity when the header carries a valid
// one and lets anonymous requests through.
func CallerOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := alumnidomain.NormalizeEmail(c.GetHeader(callerHeader))
		if alumnidomain.IsValidEmail(email) {
			ctx := callerctx.WithEmail(c.Request.Context(), email)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func callerEmail(c *gin.Context) (string, bool) {
	return callerctx.EmailFromContext(c.Request.Context())
}
