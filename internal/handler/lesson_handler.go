package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
	"github.com/alextrocado/edumanage/internal/validator"
)

// LessonHandler handles lesson and attendance record management.
type LessonHandler struct {
	classService *service.ClassService
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(classService *service.ClassService) *LessonHandler {
	return &LessonHandler{classService: classService}
}

// LessonRequest is the payload for creating or updating a lesson.
type LessonRequest struct {
	Date        string `json:"date" binding:"required,len=10"`
	Time        string `json:"time" binding:"required,len=5"`
	Duration    int    `json:"duration" binding:"omitempty,min=1,max=600"`
	Description string `json:"description" binding:"omitempty,max=5000"`
}

// CreateLesson godoc
// POST /api/v1/classes/:id/lessons
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req LessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lesson, err := h.classService.CreateLesson(c.Request.Context(), userID(c), c.Param("id"), model.Lesson{
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Description: req.Description,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"lesson": lesson})
}

// UpdateLesson godoc
// PUT /api/v1/classes/:id/lessons/:lid
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	var req LessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lesson, err := h.classService.UpdateLesson(c.Request.Context(), userID(c), c.Param("id"), model.Lesson{
		ID:          c.Param("lid"),
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Description: req.Description,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}

// DeleteLesson godoc
// DELETE /api/v1/classes/:id/lessons/:lid
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	if err := h.classService.DeleteLesson(c.Request.Context(), userID(c), c.Param("id"), c.Param("lid")); err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AttendanceRecordRequest is a single student's record for a lesson.
type AttendanceRecordRequest struct {
	StudentID     string `json:"student_id" binding:"required"`
	Status        string `json:"status" binding:"required,oneof=Presente Ausente Atraso"`
	Participation int    `json:"participation" binding:"omitempty,min=0,max=5"`
	TPC           int    `json:"tpc" binding:"omitempty,min=0,max=5"`
	Occurrence    string `json:"occurrence" binding:"omitempty,max=2000"`
}

// SetRecordsRequest replaces the attendance records of a lesson.
type SetRecordsRequest struct {
	Records []AttendanceRecordRequest `json:"records" binding:"required,dive"`
}

// SetRecords godoc
// PUT /api/v1/classes/:id/lessons/:lid/records
func (h *LessonHandler) SetRecords(c *gin.Context) {
	var req SetRecordsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records := make([]model.AttendanceRecord, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, model.AttendanceRecord{
			StudentID:     r.StudentID,
			Status:        model.PresenceStatus(r.Status),
			Participation: r.Participation,
			TPC:           r.TPC,
			Occurrence:    r.Occurrence,
		})
	}

	lesson, err := h.classService.SetLessonRecords(c.Request.Context(), userID(c), c.Param("id"), c.Param("lid"), records)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}

// Generate godoc
// POST /api/v1/classes/:id/lessons/generate
func (h *LessonHandler) Generate(c *gin.Context) {
	class, err := h.classService.GenerateLessons(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}
