package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func authTestRouter(t *testing.T) (*gin.Engine, *uint) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var gotOwnerID uint
	router := gin.New()
	router.GET("/protected", NewAuthenticator(testSigningKey).VerifyJWT(), func(ctx *gin.Context) {
		gotOwnerID = ctx.GetUint("ownerID")
		ctx.Status(http.StatusOK)
	})

	return router, &gotOwnerID
}

func signToken(t *testing.T, key, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)

	return signed
}

func TestVerifyJWT(t *testing.T) {
	router, gotOwnerID := authTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSigningKey, "42", time.Now().Add(time.Hour)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), *gotOwnerID)
}

func TestVerifyJWT_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong signing key", "Bearer "},
		{"expired token", "Bearer "},
		{"non-numeric subject", "Bearer "},
	}

	router, _ := authTestRouter(t)

	tests[3].header += signToken(t, "some-other-key", "42", time.Now().Add(time.Hour))
	tests[4].header += signToken(t, testSigningKey, "42", time.Now().Add(-time.Hour))
	tests[5].header += signToken(t, testSigningKey, "alice", time.Now().Add(time.Hour))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
