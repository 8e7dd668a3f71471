package middleware

import (
	"strings"

	"land-document-service/internal/auth"
	"land-document-service/internal/errors"

	"github.com/gin-gonic/gin"
)

type Auth struct {
	JWTSecret      string
	InternalSecret string
}

// AuthMiddleware verifies the bearer token from the identity service and
// puts the actor identity on the request context.
func (m *Auth) AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		parsedToken, err := auth.VerifyJWT(token, []byte(m.JWTSecret))
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		claims, err := auth.GetClaimsFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		ctx.Set("actor_id", claims.ActorID)
		ctx.Set("actor_role", claims.Role)
		ctx.Next()
	}
}

// InternalAuthMiddleware guards service-to-service routes with a shared
// secret. The calling service supplies the acting user in a header.
func (m *Auth) InternalAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := strings.TrimPrefix(
			ctx.GetHeader("Authorization"),
			"Bearer ",
		)

		if token != m.InternalSecret {
			ctx.Error(errors.Unauthorized("Unauthorized internal call!", nil))
			ctx.Abort()
			return
		}

		actorID := ctx.GetHeader("X-Actor-Id")
		if actorID == "" {
			ctx.Error(errors.Unauthorized("X-Actor-Id not found in header", nil))
			ctx.Abort()
			return
		}

		ctx.Set("actor_id", actorID)
		ctx.Set("actor_role", ctx.GetHeader("X-Actor-Role"))
		ctx.Next()
	}
}
