package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

// VerifyJWT parses the bearer token and stores the authenticated account ID
// under "ownerID" for downstream handlers.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(ctx, "missing Authorization header")
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			abortUnauthorized(ctx, "invalid Authorization header")
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}

			return []byte(a.signingKey), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(ctx, "invalid or expired token")
			return
		}

		ownerID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			abortUnauthorized(ctx, "invalid token subject")
			return
		}

		ctx.Set("ownerID", uint(ownerID))
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
