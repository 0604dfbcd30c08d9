package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"CampusHire-backend/internal/auth"
	"CampusHire-backend/internal/utilities"
)

// JwtBlacklistCheck rejects tokens revoked by logout. It must run after RequireAuth.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, _ := ctx.Get(utilities.ContextKeyClaims)
		claims, ok := raw.(*jwt.RegisteredClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "invalid token claims",
			})
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(claims.ID)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
			})
			return
		}

		if isBlacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}

		ctx.Next()
	}
}
