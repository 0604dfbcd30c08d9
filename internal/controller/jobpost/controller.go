// Package jobpost provides HTTP handlers for job post related operations.
package jobpost

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"CampusHire-backend/internal/controller"
	"CampusHire-backend/internal/jobboard"
	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/utilities"
)

// dateLayout is the date-only deadline format sent by date pickers
const dateLayout = "2006-01-02"

// JobPostController handles job post related endpoints
type JobPostController struct {
	Service *jobboard.Service
	Now     func() time.Time
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(service *jobboard.Service) *JobPostController {
	return &JobPostController{
		Service: service,
		Now:     time.Now,
	}
}

// jobPostRequest is the body of a create job request
type jobPostRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Deadline     string   `json:"deadline" example:"2026-12-31"`
	Salary       string   `json:"salary"`
	Requirements []string `json:"requirements"`
}

// parseDeadline accepts a date (midnight UTC) or an RFC 3339 timestamp
func parseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

// CreateJobPostHandler handles the creation of a new job post by a college user.
// @Summary Create job post based on given json structure
// @Description Only college users have access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Jobpost body jobPostRequest true "Input jobpost information"
// @Success 201 {object} model.JobResponse "Successfully create job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job post"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as college"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobPostController) CreateJobPostHandler(c *gin.Context) {
	college, ok := controller.CollegeFromContext(c)
	if !ok {
		return
	}

	var req jobPostRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, err := jc.Service.CreateJob(c.Request.Context(), college, model.EditableJobInfo{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Type:         model.JobType(req.Type),
		Deadline:     deadline,
		Salary:       req.Salary,
		Requirements: req.Requirements,
	})
	if err != nil {
		controller.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job.ToJobResponse(college, jc.Now()))
}

// GetPosts returns the job posts visible to the user.
// Colleges get their own posts, students get the posts of their college.
// @Summary Get job posts visible to the user
// @Description Every query is optional
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Substring of title, description or location, case insensitive"
// @Param type query string false "Job type, must exactly match"
// @Param active query boolean false "Only return jobs whose deadline has not passed"
// @Success 200 {array} model.JobResponse "Return visible job post(s)"
// @Failure 400 {object} utilities.ErrorResponse "Invalid query"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	actor, ok := controller.ActorFromContext(c)
	if !ok {
		return
	}

	filter := jobboard.JobFilter{
		Search: c.Query("search"),
		Type:   model.JobType(c.Query("type")),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "active must be a boolean"})
			return
		}
		filter.ActiveOnly = active
	}

	jobs, err := jc.Service.ListVisibleJobs(c.Request.Context(), actor, filter)
	if err != nil {
		controller.WriteError(c, err)
		return
	}

	now := jc.Now()
	resp := make([]model.JobResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, jobs[i].ToJobResponse(actor, now))
	}
	c.JSON(http.StatusOK, resp)
}

// GetPostByID returns one job post visible to the user
// @Summary Get job post by id
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job post id"
// @Success 200 {object} model.JobResponse
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Router /jobs/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	actor, ok := controller.ActorFromContext(c)
	if !ok {
		return
	}
	id, ok := controller.IDParam(c, "id")
	if !ok {
		return
	}

	job, err := jc.Service.GetJob(c.Request.Context(), actor, id)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, job.ToJobResponse(actor, jc.Now()))
}

// HasAppliedHandler reports whether the user applied to the job
// @Summary Check application to a job
// @Description Always false for colleges
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job post id"
// @Success 200 {object} map[string]bool
// @Router /jobs/{id}/applied [get]
func (jc *JobPostController) HasAppliedHandler(c *gin.Context) {
	actor, ok := controller.ActorFromContext(c)
	if !ok {
		return
	}
	id, ok := controller.IDParam(c, "id")
	if !ok {
		return
	}

	applied, err := jc.Service.HasApplied(c.Request.Context(), actor, id)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}
