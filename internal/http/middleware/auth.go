package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	companyIDKey = "company_id"
	userIDKey    = "user_id"
)

// CompanyAuth validates the bearer token and stashes the tenant id in the
// context. Every protected handler reads the company through GetCompanyID,
// never from the request payload.
func CompanyAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token", "request_id": GetRequestID(c)})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "request_id": GetRequestID(c)})
			return
		}

		companyID, ok := claimInt64(claims, "company_id")
		if !ok || companyID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no company", "request_id": GetRequestID(c)})
			return
		}
		c.Set(companyIDKey, companyID)
		if userID, ok := claimInt64(claims, "user_id"); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// GetCompanyID returns the authenticated tenant, or 0 when unauthenticated.
func GetCompanyID(c *gin.Context) int64 {
	if v, ok := c.Get(companyIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// SignCompanyToken issues a 24h HS256 token carrying the tenant claim.
func SignCompanyToken(secret string, userID, companyID int64, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func claimInt64(claims jwt.MapClaims, name string) (int64, bool) {
	switch v := claims[name].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}
