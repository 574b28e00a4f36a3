package handler

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/response"
	"github.com/alextrocado/edumanage/internal/service"
)

var importMIMETypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// ImportHandler accepts document uploads and merges the extracted
// contents into a class.
type ImportHandler struct {
	importService *service.ImportService
	maxBytes      int64
	log           zerolog.Logger
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService, maxBytes int64, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		maxBytes:      maxBytes,
		log:           log.With().Str("component", "import_handler").Logger(),
	}
}

// FromDocument godoc
// POST /api/v1/classes/:id/import/:mode (multipart, field "file")
func (h *ImportHandler) FromDocument(c *gin.Context) {
	mode := service.ImportMode(c.Param("mode"))
	switch mode {
	case service.ImportRoster, service.ImportGrades, service.ImportSchedule, service.ImportMeasures:
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

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

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		h.log.Error().Err(err).Msg("failed to read uploaded document")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	mimeType := http.DetectContentType(buf[:n])
	if !importMIMETypes[mimeType] {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.log.Error().Err(err).Msg("failed to rewind uploaded document")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, h.maxBytes))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read uploaded document")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	result, err := h.importService.FromDocument(
		c.Request.Context(),
		userID(c),
		c.Param("id"),
		mode,
		base64.StdEncoding.EncodeToString(raw),
		mimeType,
		header.Filename,
	)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}
