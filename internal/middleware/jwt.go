package middleware

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	mu     sync.RWMutex
	secret = []byte("supersecret")
	ttl    = 72 * time.Hour
)

// Configure sets the signing secret and token lifetime.
func Configure(jwtSecret string, tokenTTL time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if jwtSecret != "" {
		secret = []byte(jwtSecret)
	}
	if tokenTTL > 0 {
		ttl = tokenTTL
	}
}

func signingKey() []byte {
	mu.RLock()
	defer mu.RUnlock()
	return secret
}

// Claims carried by every access token.
type Claims struct {
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
	SalesPerson string `json:"sales_person,omitempty"`
	TeamID      uint   `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(c Claims) (string, error) {
	mu.RLock()
	lifetime := ttl
	mu.RUnlock()
	now := time.Now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(lifetime))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(signingKey())
}

// ValidateToken parses and verifies a token.
func ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return signingKey(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

const claimsKey = "claims"

var (
	errMissingHeader = errors.New("missing bearer token")
	errBadToken      = errors.New("invalid token")
)

func unauthorized(c *gin.Context, err error) {
	msg := "Invalid or expired token"
	if errors.Is(err, errMissingHeader) {
		msg = "Missing or invalid Authorization header"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// authenticate verifies the bearer token and stores its claims on the context.
// It never advances the handler chain.
func authenticate(c *gin.Context) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errMissingHeader
	}
	claims, err := ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return nil, errBadToken
	}

	// Store claims in context for downstream handlers
	c.Set(claimsKey, claims)
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return claims, nil
}

// RequireAuth ensures a valid JWT is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authenticate(c); err != nil {
			unauthorized(c, err)
			return
		}
		c.Next()
	}
}

// RequireAuthWithRoles ensures the JWT is valid and the user holds one of roles.
func RequireAuthWithRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c)
		if err != nil {
			unauthorized(c, err)
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CurrentClaims returns the claims stored by RequireAuth.
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
