package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
	"github.com/alextrocado/edumanage/internal/validator"
)

// AssessmentHandler handles assessments and grade entry.
type AssessmentHandler struct {
	classService *service.ClassService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(classService *service.ClassService) *AssessmentHandler {
	return &AssessmentHandler{classService: classService}
}

// AssessmentRequest is the payload for creating an assessment.
type AssessmentRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	Date string `json:"date" binding:"omitempty,len=10"`
}

// CreateAssessment godoc
// POST /api/v1/classes/:id/assessments
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	var req AssessmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assessment, err := h.classService.CreateAssessment(c.Request.Context(), userID(c), c.Param("id"), model.Assessment{
		Name: req.Name,
		Date: req.Date,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"assessment": assessment})
}

// DeleteAssessment godoc
// DELETE /api/v1/classes/:id/assessments/:aid
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	if err := h.classService.DeleteAssessment(c.Request.Context(), userID(c), c.Param("id"), c.Param("aid")); err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GradeRequest is the payload for recording a grade.
type GradeRequest struct {
	Value *float64 `json:"value" binding:"required,min=0"`
}

// SetGrade godoc
// PUT /api/v1/classes/:id/students/:sid/grades/:aid
func (h *AssessmentHandler) SetGrade(c *gin.Context) {
	var req GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	stored, err := h.classService.SetGrade(c.Request.Context(), userID(c), c.Param("id"), c.Param("sid"), c.Param("aid"), *req.Value)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"value": stored})
}

// ClearGrade godoc
// DELETE /api/v1/classes/:id/students/:sid/grades/:aid
func (h *AssessmentHandler) ClearGrade(c *gin.Context) {
	if err := h.classService.ClearGrade(c.Request.Context(), userID(c), c.Param("id"), c.Param("sid"), c.Param("aid")); err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
