package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/config"
	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/repository"
	"github.com/alextrocado/edumanage/internal/state"
)

// SyncWorker consumes the sync queue and upserts each user's current
// document into PostgreSQL. Because it always writes the snapshot that is
// current at drain time, bursts of edits naturally coalesce to the newest
// version (last write wins).
type SyncWorker struct {
	store *state.Store
	repo  *repository.StateRepository
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewSyncWorker creates a new SyncWorker.
func NewSyncWorker(store *state.Store, repo *repository.StateRepository, rdb *redis.Client, log zerolog.Logger) *SyncWorker {
	return &SyncWorker{
		store: store,
		repo:  repo,
		rdb:   rdb,
		log:   log.With().Str("component", "sync_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *SyncWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SyncWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.CacheKey.SyncQueueKey()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	userID := result[1]
	if err := w.persist(ctx, userID); err != nil {
		w.log.Error().Err(err).Str("user", userID).Msg("Persist error, degrading to local and retrying in 5s")
		w.setStatus(ctx, userID, model.SyncLocal)
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.CacheKey.SyncQueueKey(), userID)
		time.Sleep(5 * time.Second)
		return
	}
	w.setStatus(ctx, userID, model.SyncSynced)
}

func (w *SyncWorker) persist(ctx context.Context, userID string) error {
	data, ok := w.store.Get(userID)
	if !ok {
		// The document left memory between enqueue and drain. Nothing to
		// write: whatever was persisted last is still the newest version.
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return w.repo.Put(ctx, userID, raw)
}

// drain synchronously persists everything still queued during shutdown.
func (w *SyncWorker) drain(ctx context.Context) {
	for {
		userID, err := w.rdb.LPop(ctx, config.CacheKey.SyncQueueKey()).Result()
		if err != nil {
			return
		}
		if err := w.persist(ctx, userID); err != nil {
			w.log.Error().Err(err).Str("user", userID).Msg("Drain persist error")
			w.setStatus(ctx, userID, model.SyncLocal)
			continue
		}
		w.setStatus(ctx, userID, model.SyncSynced)
	}
}

func (w *SyncWorker) setStatus(ctx context.Context, userID string, st model.SyncStatus) {
	if err := w.rdb.Set(ctx, config.CacheKey.SyncStatusKey(userID), string(st), 0).Err(); err != nil {
		w.log.Debug().Err(err).Str("user", userID).Msg("Sync status write failed")
	}
}
