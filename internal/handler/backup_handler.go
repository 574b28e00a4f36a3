package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
)

// BackupHandler serves full-state archive export and import.
type BackupHandler struct {
	backupService *service.BackupService
	maxBytes      int64
	log           zerolog.Logger
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService *service.BackupService, maxBytes int64, log zerolog.Logger) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
		maxBytes:      maxBytes,
		log:           log.With().Str("component", "backup_handler").Logger(),
	}
}

// Export godoc
// GET /api/v1/backup/export
func (h *BackupHandler) Export(c *gin.Context) {
	archive, filename, err := h.backupService.Export(c.Request.Context(), userID(c))
	if err != nil {
		failDomain(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/zip", archive)
}

// Import godoc
// POST /api/v1/backup/import (multipart, field "file")
func (h *BackupHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}

	archive, err := io.ReadAll(io.LimitReader(file, h.maxBytes))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read uploaded archive")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	data, err := h.backupService.Import(c.Request.Context(), userID(c), archive)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": data})
}
