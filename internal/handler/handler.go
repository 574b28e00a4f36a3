// Package handler contains the Gin HTTP handlers for the API surface.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/middleware"
	"github.com/alextrocado/edumanage/internal/planner"
	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
)

// userID resolves the authenticated user from the request claims.
func userID(c *gin.Context) string {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return ""
	}
	return claims.UserID
}

// failDomain maps service-layer errors onto the response envelope.
func failDomain(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrAssessmentNotFound),
		errors.Is(err, service.ErrMeasureNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, planner.ErrInvalidCalendar):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidCalendar)
	case errors.Is(err, service.ErrBackupInvalid):
		response.Fail(c, http.StatusBadRequest, response.ErrBackupInvalid)
	case errors.Is(err, service.ErrExtractDisabled):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrExtractDisabled)
	case errors.Is(err, service.ErrExtractFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrExtractFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
