package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
	"github.com/alextrocado/edumanage/internal/validator"
)

// StudentHandler handles roster and support measure management.
type StudentHandler struct {
	classService *service.ClassService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(classService *service.ClassService) *StudentHandler {
	return &StudentHandler{classService: classService}
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Photo     string `json:"photo" binding:"omitempty,url"`
	Email     string `json:"email" binding:"omitempty,email"`
	BirthDate string `json:"birth_date" binding:"omitempty,len=10"`
	Notes     string `json:"notes" binding:"omitempty,max=5000"`
}

// AddStudent godoc
// POST /api/v1/classes/:id/students
func (h *StudentHandler) AddStudent(c *gin.Context) {
	var req StudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.classService.AddStudent(c.Request.Context(), userID(c), c.Param("id"), model.Student{
		Name:      req.Name,
		Photo:     req.Photo,
		Email:     req.Email,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/classes/:id/students/:sid
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req StudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.classService.UpdateStudent(c.Request.Context(), userID(c), c.Param("id"), model.Student{
		ID:        c.Param("sid"),
		Name:      req.Name,
		Photo:     req.Photo,
		Email:     req.Email,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// RemoveStudent godoc
// DELETE /api/v1/classes/:id/students/:sid
func (h *StudentHandler) RemoveStudent(c *gin.Context) {
	if err := h.classService.RemoveStudent(c.Request.Context(), userID(c), c.Param("id"), c.Param("sid")); err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// MeasureRequest is the payload for creating or updating a support measure.
type MeasureRequest struct {
	Date        string `json:"date" binding:"required,len=10"`
	Type        string `json:"type" binding:"required,oneof=Universal Seletiva Adicional Adaptação"`
	Description string `json:"description" binding:"required,max=10000"`
}

// AddMeasure godoc
// POST /api/v1/classes/:id/students/:sid/measures
func (h *StudentHandler) AddMeasure(c *gin.Context) {
	var req MeasureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	measure, err := h.classService.AddMeasure(c.Request.Context(), userID(c), c.Param("id"), c.Param("sid"), model.Measure{
		Date:        req.Date,
		Type:        model.MeasureType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"measure": measure})
}

// UpdateMeasure godoc
// PUT /api/v1/classes/:id/students/:sid/measures/:mid
func (h *StudentHandler) UpdateMeasure(c *gin.Context) {
	var req MeasureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	measure, err := h.classService.UpdateMeasure(c.Request.Context(), userID(c), c.Param("id"), c.Param("sid"), model.Measure{
		ID:          c.Param("mid"),
		Date:        req.Date,
		Type:        model.MeasureType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"measure": measure})
}

// DeleteMeasure godoc
// DELETE /api/v1/classes/:id/students/:sid/measures/:mid
func (h *StudentHandler) DeleteMeasure(c *gin.Context) {
	if err := h.classService.DeleteMeasure(c.Request.Context(), userID(c), c.Param("id"), c.Param("sid"), c.Param("mid")); err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
