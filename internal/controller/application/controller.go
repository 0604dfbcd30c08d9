// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"CampusHire-backend/internal/controller"
	"CampusHire-backend/internal/jobboard"
	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	Service *jobboard.Service
}

// NewApplicationController creates a new instance of ApplicationController
func NewApplicationController(service *jobboard.Service) *ApplicationController {
	return &ApplicationController{
		Service: service,
	}
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ApplicationHandler submits an application of the student to a job.
// @Summary Apply to a job post
// @Description Only students of the posting college can apply, once per job and before the deadline
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job post id"
// @Param application body applyRequest false "Cover letter"
// @Success 201 {object} model.Application "Successfully apply job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or job expired"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as student of the posting college"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applications [post]
func (ac *ApplicationController) ApplicationHandler(c *gin.Context) {
	student, ok := controller.StudentFromContext(c)
	if !ok {
		return
	}
	jobID, ok := controller.IDParam(c, "id")
	if !ok {
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	application, err := ac.Service.ApplyToJob(c.Request.Context(), student, jobID, req.CoverLetter)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

// GetJobApplications lists the applications to a job of the college
// @Summary List applications of a job post
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job post id"
// @Success 200 {array} model.Application
// @Failure 403 {object} utilities.ErrorResponse "Job post belongs to another college"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Router /jobs/{id}/applications [get]
func (ac *ApplicationController) GetJobApplications(c *gin.Context) {
	college, ok := controller.CollegeFromContext(c)
	if !ok {
		return
	}
	jobID, ok := controller.IDParam(c, "id")
	if !ok {
		return
	}

	applications, err := ac.Service.ListApplicationsForJob(c.Request.Context(), college, jobID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

// GetMyApplications lists the student's applications, most recent first
// @Summary List my applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ApplicationWithJob
// @Router /applications/me [get]
func (ac *ApplicationController) GetMyApplications(c *gin.Context) {
	student, ok := controller.StudentFromContext(c)
	if !ok {
		return
	}

	applications, err := ac.Service.ListApplicationsForStudent(c.Request.Context(), student)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

// UpdateStatusHandler changes the status of an application to one of the college's jobs
// @Summary Update application status
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Param status body statusRequest true "pending, reviewed, accepted or rejected"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Invalid status"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another college"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id}/status [patch]
func (ac *ApplicationController) UpdateStatusHandler(c *gin.Context) {
	college, ok := controller.CollegeFromContext(c)
	if !ok {
		return
	}
	applicationID, ok := controller.IDParam(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "status must be provided"})
		return
	}
	status, err := model.ParseApplicationStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application, err := ac.Service.UpdateApplicationStatus(c.Request.Context(), college, applicationID, status)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}
