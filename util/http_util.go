// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/verdictsec/verdict/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// Subject is the authenticated identity placed in the request context by the
// subject middleware.
type Subject struct {
	Username string
	Role     string
}

const subjectContextKey = "subject"

// SetSubject stores the authenticated subject on the request context.
func SetSubject(c *gin.Context, s Subject) {
	c.Set(subjectContextKey, s)
}

// GetSubjectFromContext returns the authenticated subject, if any.
func GetSubjectFromContext(c *gin.Context) (Subject, bool) {
	v, exists := c.Get(subjectContextKey)
	if !exists {
		return Subject{}, false
	}
	s, ok := v.(Subject)
	return s, ok
}
