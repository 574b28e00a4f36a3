package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/config"
	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/planner"
	"github.com/alextrocado/edumanage/internal/repository"
	"github.com/alextrocado/edumanage/internal/state"
)

// StateService owns the lifecycle of user state documents: initial load
// from cloud persistence, whole-document mutation through the state store,
// undo/redo, and debounced cloud write scheduling. Cloud failures always
// degrade to local-only operation; a mutation never fails because the
// cloud is unreachable.
type StateService struct {
	cfg   *config.Config
	store *state.Store
	repo  *repository.StateRepository
	rdb   *redis.Client
	log   zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewStateService creates a StateService and registers itself as the
// store's change listener.
func NewStateService(
	cfg *config.Config,
	store *state.Store,
	repo *repository.StateRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *StateService {
	s := &StateService{
		cfg:    cfg,
		store:  store,
		repo:   repo,
		rdb:    rdb,
		log:    log.With().Str("component", "state_service").Logger(),
		timers: make(map[string]*time.Timer),
	}
	store.OnChange(s.markDirty)
	return s
}

// Load returns the user's document, pulling it from cloud persistence on
// first access. A missing or unreachable cloud document yields an empty
// local document; regeneration runs once per load so lesson lists follow
// the stored calendar.
func (s *StateService) Load(ctx context.Context, userID string) (model.AppData, error) {
	if d, ok := s.store.Get(userID); ok {
		return d, nil
	}

	data := model.AppData{Classes: []model.SchoolClass{}}
	raw, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		if uerr := json.Unmarshal(raw, &data); uerr != nil {
			return model.AppData{}, fmt.Errorf("decode stored document: %w", uerr)
		}
		s.setStatus(ctx, userID, model.SyncSynced)
	case errors.Is(err, repository.ErrStateNotFound):
		s.setStatus(ctx, userID, model.SyncLocal)
	default:
		s.log.Warn().Err(err).Str("user", userID).Msg("Cloud pull failed, using empty local document")
		s.setStatus(ctx, userID, model.SyncLocal)
	}

	data = s.regenerateAll(data, userID)
	s.store.Seed(userID, data)

	d, _ := s.store.Get(userID)
	return d, nil
}

// Apply runs a document mutation for the user, loading the document first
// if needed.
func (s *StateService) Apply(ctx context.Context, userID string, fn func(model.AppData) (model.AppData, error)) (model.AppData, error) {
	if _, err := s.Load(ctx, userID); err != nil {
		return model.AppData{}, err
	}
	return s.store.Apply(userID, fn)
}

// Undo steps the user's document back one snapshot.
func (s *StateService) Undo(userID string) (model.AppData, bool) {
	return s.store.Undo(userID)
}

// Redo re-applies the most recently undone snapshot.
func (s *StateService) Redo(userID string) (model.AppData, bool) {
	return s.store.Redo(userID)
}

// History returns undo/redo stack depths.
func (s *StateService) History(userID string) (past, future int) {
	return s.store.History(userID)
}

// Replace installs a document wholesale (backup restore). Goes through the
// store so the previous document remains undoable.
func (s *StateService) Replace(ctx context.Context, userID string, data model.AppData) (model.AppData, error) {
	return s.Apply(ctx, userID, func(model.AppData) (model.AppData, error) {
		return s.regenerateAll(data, userID), nil
	})
}

// SyncStatus reads the user's cloud sync status indicator.
func (s *StateService) SyncStatus(ctx context.Context, userID string) model.SyncStatus {
	v, err := s.rdb.Get(ctx, config.CacheKey.SyncStatusKey(userID)).Result()
	if err != nil {
		return model.SyncLocal
	}
	return model.SyncStatus(v)
}

// markDirty is the store change callback: it (re)arms the user's debounce
// timer so a burst of edits coalesces into a single queued write.
func (s *StateService) markDirty(userID string, _ model.AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[userID]; ok {
		t.Stop()
	}
	s.timers[userID] = time.AfterFunc(s.cfg.SyncDebounce, func() {
		s.enqueue(userID)
	})
}

// enqueue pushes the user onto the sync queue consumed by the sync worker.
func (s *StateService) enqueue(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.setStatus(ctx, userID, model.SyncSyncing)
	if err := s.rdb.RPush(ctx, config.CacheKey.SyncQueueKey(), userID).Err(); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("Sync enqueue failed, staying local")
		s.setStatus(ctx, userID, model.SyncLocal)
	}
}

func (s *StateService) setStatus(ctx context.Context, userID string, st model.SyncStatus) {
	if err := s.rdb.Set(ctx, config.CacheKey.SyncStatusKey(userID), string(st), 0).Err(); err != nil {
		s.log.Debug().Err(err).Str("user", userID).Msg("Sync status write failed")
	}
}

// regenerateAll refreshes every class's generated lessons against the
// document's calendar. A malformed calendar is left for the calendar
// endpoint to surface; here it only logs.
func (s *StateService) regenerateAll(data model.AppData, userID string) model.AppData {
	if data.Config == nil || data.Config.Calendar == nil {
		return data
	}
	for i, c := range data.Classes {
		regenerated, err := planner.Generate(c, data.Config.Calendar)
		if err != nil {
			s.log.Warn().Err(err).Str("user", userID).Str("class", c.ID).Msg("Lesson regeneration skipped")
			continue
		}
		data.Classes[i] = regenerated
	}
	return data
}
