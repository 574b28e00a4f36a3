package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
	"github.com/alextrocado/edumanage/internal/validator"
)

// ClassHandler handles class management plus the shared school calendar.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.ListClasses(c.Request.Context(), userID(c))
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/v1/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	class, err := h.classService.GetClass(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClassRequest is the payload for creating or updating a class.
type CreateClassRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=100"`
	DefaultDuration int    `json:"default_duration" binding:"omitempty,min=1,max=600"`
}

// CreateClass godoc
// POST /api/v1/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.CreateClass(c.Request.Context(), userID(c), req.Name, req.DefaultDuration)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/v1/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	var req CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.UpdateClass(c.Request.Context(), userID(c), c.Param("id"), req.Name, req.DefaultDuration)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/v1/classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	if err := h.classService.DeleteClass(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ScheduleEntryRequest is one weekly slot in a schedule update.
type ScheduleEntryRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,len=5"`
	Duration  int    `json:"duration" binding:"omitempty,min=1,max=600"`
}

// SetScheduleRequest replaces a class's weekly schedule.
type SetScheduleRequest struct {
	Entries []ScheduleEntryRequest `json:"entries" binding:"required,dive"`
}

// SetSchedule godoc
// PUT /api/v1/classes/:id/schedule
// Replaces the weekly schedule and regenerates the class's lessons.
func (h *ClassHandler) SetSchedule(c *gin.Context) {
	var req SetScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entries := make([]model.ScheduleEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, model.ScheduleEntry{
			DayOfWeek: *e.DayOfWeek,
			StartTime: e.StartTime,
			Duration:  e.Duration,
		})
	}

	class, err := h.classService.SetSchedule(c.Request.Context(), userID(c), c.Param("id"), entries)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// SetCalendarRequest carries the shared school calendar.
type SetCalendarRequest struct {
	YearStart string                `json:"year_start" binding:"required,len=10"`
	YearEnd   string                `json:"year_end" binding:"required,len=10"`
	Holidays  []model.SchoolHoliday `json:"holidays"`
	Terms     []model.SchoolTerm    `json:"terms"`
}

// SetCalendar godoc
// PUT /api/v1/calendar
// Stores the school calendar and regenerates every class. Malformed year
// bounds are a configuration error (422), not a silent no-op.
func (h *ClassHandler) SetCalendar(c *gin.Context) {
	var req SetCalendarRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	data, err := h.classService.SetCalendar(c.Request.Context(), userID(c), model.SchoolCalendar{
		YearStart: req.YearStart,
		YearEnd:   req.YearEnd,
		Holidays:  req.Holidays,
		Terms:     req.Terms,
	})
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"calendar": data.Config.Calendar, "classes": data.Classes})
}
