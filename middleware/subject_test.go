// middleware/subject_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/verdictsec/verdict/logging"
	"github.com/verdictsec/verdict/middleware"
	"github.com/verdictsec/verdict/util"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var testSecret = []byte("unit-test-secret")

func signToken(t *testing.T, secret []byte, claims middleware.SubjectClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func subjectRouter() (*gin.Engine, *util.Subject) {
	var seen util.Subject
	router := gin.New()
	router.Use(middleware.SubjectAuth(testSecret))
	router.GET("/whoami", func(c *gin.Context) {
		seen, _ = util.GetSubjectFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": seen.Username})
	})
	return router, &seen
}

func TestSubjectAuth(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		router, seen := subjectRouter()
		token := signToken(t, testSecret, middleware.SubjectClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Username: "alice",
			Role:     "user",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", seen.Username)
		assert.Equal(t, "user", seen.Role)
	})

	t.Run("MissingToken", func(t *testing.T) {
		router, _ := subjectRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		router, _ := subjectRouter()
		token := signToken(t, []byte("other-secret"), middleware.SubjectClaims{
			Username: "alice",
			Role:     "user",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MissingClaims", func(t *testing.T) {
		router, _ := subjectRouter()
		token := signToken(t, testSecret, middleware.SubjectClaims{Username: "alice"})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		router, _ := subjectRouter()
		token := signToken(t, testSecret, middleware.SubjectClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			Username: "alice",
			Role:     "user",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
