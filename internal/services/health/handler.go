package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feedback-console/internal/shared/server/respond"
)

// Handler serves the health report.
func Handler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, svc.Status(c.Request.Context()))
	}
}
