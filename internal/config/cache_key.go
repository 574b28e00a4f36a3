package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's active session JTI.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// SyncStatusKey returns the cache key for a user's cloud sync status.
func (r *CacheKeyStruct) SyncStatusKey(userID string) string {
	return fmt.Sprintf("user:%s:sync_status", userID)
}

// SyncQueueKey returns the Redis list the sync worker consumes.
func (r *CacheKeyStruct) SyncQueueKey() string {
	return "sync:queue"
}

var CacheKey = NewCacheKeyStruct()
