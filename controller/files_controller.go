// controller/files_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verdictsec/verdict/pep"
	"github.com/verdictsec/verdict/util"
)

// FilesController demonstrates the enforcement contract on the file-sharing
// routes the policy set governs. The handlers acknowledge the permitted
// operation; actual storage access lives in the storage service, which calls
// this engine the same way these routes do.
type FilesController struct {
	enforcer *pep.Enforcer
}

func NewFilesController(enforcer *pep.Enforcer) *FilesController {
	return &FilesController{enforcer: enforcer}
}

// RegisterRoutes registers the API routes
func (fc *FilesController) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.POST("", fc.enforcer.Enforce("upload"), fc.ack("upload"))
		files.POST("/directories", fc.enforcer.Enforce("mkdir"), fc.ack("mkdir"))
		files.GET("/:owner", fc.enforcer.Enforce("list", pep.WithResourceOwnerParam("owner")), fc.ack("list"))
		files.DELETE("/:owner", fc.enforcer.Enforce("delete", pep.WithResourceOwnerParam("owner")), fc.ack("delete"))
	}

	users := r.Group("/users")
	{
		users.GET("", fc.enforcer.Enforce("list-users"), fc.ack("list-users"))
		users.PUT("/:role/quota", fc.enforcer.Enforce("update-quota", pep.WithTargetRoleParam("role")), fc.ack("update-quota"))
	}
}

func (fc *FilesController) ack(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, _ := util.GetSubjectFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"action":   action,
			"username": subject.Username,
			"status":   "authorized",
		})
	}
}
