// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"CampusHire-backend/internal/auth"
	"CampusHire-backend/internal/database"
	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/utilities"
)

func abortWithError(ctx *gin.Context, status int, msg string) {
	ctx.AbortWithStatusJSON(status, utilities.ErrorResponse{Error: msg})
}

// tokenErrorMessage turns a token validation error into the message sent to the client
func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Access token expired"
	case errors.Is(err, auth.ErrInvalidIssuer):
		return "Invalid token issuer"
	default:
		return "Failed to validate token: " + err.Error()
	}
}

// RequireAuth accepts requests carrying a valid Bearer access token whose
// subject is an existing user. The token claims and the user are stored in
// the context under utilities.ContextKeyClaims and utilities.ContextKeyUser.
func RequireAuth(db *database.DBinstanceStruct, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			abortWithError(ctx, http.StatusBadRequest, err.Error())
			return
		}

		token, claims, err := tokens.ValidatedToken(tokenString)
		if err != nil {
			abortWithError(ctx, http.StatusUnauthorized, tokenErrorMessage(err))
			return
		}
		if !token.Valid {
			abortWithError(ctx, http.StatusUnauthorized, "Invalid access token")
			return
		}
		ctx.Set(utilities.ContextKeyClaims, claims)

		var user model.User
		err = db.WithContext(ctx.Request.Context()).Where("id = ?", claims.Subject).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			abortWithError(ctx, http.StatusUnauthorized, "User not exist")
			return
		case err != nil:
			abortWithError(ctx, http.StatusInternalServerError, "Failed to retrieve user data: "+err.Error())
			return
		}

		ctx.Set(utilities.ContextKeyUser, user)
		ctx.Next()
	}
}
