package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const principalContextKey = "auth.principal"

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware verifies the bearer token and stores the resulting Principal in
// the request context. Requests without a valid token are rejected with 401
// before they reach any handler.
func Middleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		principal, err := ParseToken(tokenStr, secret)
		if err != nil {
			log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Rejected request with invalid token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx.Set(principalContextKey, principal)
		ctx.Next()
	}
}

// ParseToken validates an HS256 token and extracts the principal from its
// sub/role claims.
func ParseToken(tokenStr, secret string) (Principal, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return Principal{}, fmt.Errorf("invalid subject claim %q: %w", claims.Subject, err)
	}
	role := Role(claims.Role)
	if !role.Valid() {
		return Principal{}, fmt.Errorf("invalid role claim %q", claims.Role)
	}
	return Principal{ID: uint(userID), Role: role}, nil
}

// SignToken mints a token for the given principal. Exposed for tests and
// local tooling; production tokens come from the portal's auth service.
func SignToken(p Principal, secret string) (string, error) {
	claims := tokenClaims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatUint(uint64(p.ID), 10),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// FromContext returns the principal stored by Middleware.
func FromContext(ctx *gin.Context) (Principal, bool) {
	v, exists := ctx.Get(principalContextKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
