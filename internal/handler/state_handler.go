package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
)

// StateHandler exposes the whole state document plus undo/redo and the
// cloud sync indicator.
type StateHandler struct {
	stateService *service.StateService
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(stateService *service.StateService) *StateHandler {
	return &StateHandler{stateService: stateService}
}

// GetState godoc
// GET /api/v1/state
// Returns the full application document for the authenticated user.
func (h *StateHandler) GetState(c *gin.Context) {
	data, err := h.stateService.Load(c.Request.Context(), userID(c))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	past, future := h.stateService.History(userID(c))
	response.Success(c, http.StatusOK, gin.H{
		"state":    data,
		"can_undo": past > 0,
		"can_redo": future > 0,
	})
}

// Undo godoc
// POST /api/v1/state/undo
func (h *StateHandler) Undo(c *gin.Context) {
	data, ok := h.stateService.Undo(userID(c))
	if !ok {
		response.Fail(c, http.StatusConflict, response.ErrNothingToUndo)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": data})
}

// Redo godoc
// POST /api/v1/state/redo
func (h *StateHandler) Redo(c *gin.Context) {
	data, ok := h.stateService.Redo(userID(c))
	if !ok {
		response.Fail(c, http.StatusConflict, response.ErrNothingToRedo)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": data})
}

// SyncStatus godoc
// GET /api/v1/state/sync-status
// Non-blocking cloud persistence indicator (synced/syncing/local/error).
func (h *StateHandler) SyncStatus(c *gin.Context) {
	status := h.stateService.SyncStatus(c.Request.Context(), userID(c))
	response.Success(c, http.StatusOK, gin.H{"status": status})
}
