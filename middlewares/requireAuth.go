package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Kariqs/mebel-api/services"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/gin-gonic/gin"
)

const claimsKey = "user"

func abortWithError(ctx *gin.Context, err error) {
	message := "failed to authenticate"
	var appErr *utils.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	status := utils.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Println("Token verification error:", err)
	}
	ctx.AbortWithStatusJSON(status, gin.H{"message": message})
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// Browsers cannot set headers on websocket handshakes.
	if header == "" && strings.EqualFold(ctx.GetHeader("Upgrade"), "websocket") {
		return ctx.Query("token")
	}
	return ""
}

// RequireAuth verifies the bearer token and stores its claims in the context.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization token required"})
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.Set(claimsKey, claims)
		ctx.Next()
	}
}

// CurrentUser returns the claims stored by RequireAuth.
func CurrentUser(ctx *gin.Context) (*services.Claims, bool) {
	value, exists := ctx.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.Claims)
	return claims, ok
}
