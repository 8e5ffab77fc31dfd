// middleware/subject.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/util"
)

// SubjectClaims are the identity claims the enforcement layer needs: who the
// caller is and which role the directory assigned them.
type SubjectClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SubjectAuth extracts the authenticated subject from a bearer token signed
// with the shared HMAC secret and stores it on the request context for the
// enforcement layer. Requests without a valid token are rejected before any
// policy evaluation happens.
func SubjectAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			logger.Warn("No Authorization token provided")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := parseSubjectToken(tokenString, secret)
		if err != nil {
			logger.Error("Error parsing token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if claims.Username == "" || claims.Role == "" {
			logger.Warn("Token missing subject claims",
				zap.String("username", claims.Username),
				zap.String("role", claims.Role))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		util.SetSubject(c, util.Subject{Username: claims.Username, Role: claims.Role})
		c.Next()
	}
}

func parseSubjectToken(tokenString string, secret []byte) (*SubjectClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &SubjectClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SubjectClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token or wrong claims type")
	}
	return claims, nil
}
