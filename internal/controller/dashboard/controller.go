// Package dashboard serves the per-user summary counters
package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"CampusHire-backend/internal/controller"
	"CampusHire-backend/internal/jobboard"
)

// DashboardController handles dashboard endpoints
type DashboardController struct {
	Service *jobboard.Service
}

// NewDashboardController creates a new instance of DashboardController
func NewDashboardController(service *jobboard.Service) *DashboardController {
	return &DashboardController{Service: service}
}

// StatsHandler returns the dashboard counters of the user
// @Summary Dashboard statistics
// @Description Colleges get counters over their own posts, students over the posts of their college and their own applications
// @Tags Dashboard
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} jobboard.DashboardStats
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard/stats [get]
func (dc *DashboardController) StatsHandler(c *gin.Context) {
	actor, ok := controller.ActorFromContext(c)
	if !ok {
		return
	}

	stats, err := dc.Service.Stats(c.Request.Context(), actor)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
