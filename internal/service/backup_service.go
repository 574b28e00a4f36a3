package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alextrocado/edumanage/internal/model"
)

// ErrBackupInvalid marks a corrupt or foreign archive. The current state
// is never touched when an import fails.
var ErrBackupInvalid = errors.New("invalid backup archive")

// backupEntryName is the single JSON entry inside a backup archive.
const backupEntryName = "backup_data.json"

// BackupService exports and restores the whole state document as a
// compressed archive containing one JSON file.
type BackupService struct {
	states *StateService
}

// NewBackupService creates a new BackupService.
func NewBackupService(states *StateService) *BackupService {
	return &BackupService{states: states}
}

// Export renders the user's document as a zip archive. Returns the archive
// bytes and a dated download filename.
func (s *BackupService) Export(ctx context.Context, userID string) ([]byte, string, error) {
	data, err := s.states.Load(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("encode document: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zw.Create(backupEntryName)
	if err != nil {
		return nil, "", fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := entry.Write(raw); err != nil {
		return nil, "", fmt.Errorf("write archive entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("close archive: %w", err)
	}

	filename := fmt.Sprintf("backup_edumanage_%s.zip", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// Import validates an uploaded archive and replaces the user's document
// with its contents. Any structural problem aborts before the state is
// touched; there is no partial merge.
func (s *BackupService) Import(ctx context.Context, userID string, archive []byte) (model.AppData, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return model.AppData{}, fmt.Errorf("%w: %v", ErrBackupInvalid, err)
	}

	var data model.AppData
	found := false
	for _, f := range zr.File {
		if f.Name != backupEntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return model.AppData{}, fmt.Errorf("%w: %v", ErrBackupInvalid, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return model.AppData{}, fmt.Errorf("%w: %v", ErrBackupInvalid, err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return model.AppData{}, fmt.Errorf("%w: %v", ErrBackupInvalid, err)
		}
		found = true
		break
	}

	if !found || data.Classes == nil {
		return model.AppData{}, ErrBackupInvalid
	}

	return s.states.Replace(ctx, userID, data)
}
