package model

// SyncStatus reflects the cloud persistence state of a user's document.
type SyncStatus string

const (
	SyncSynced  SyncStatus = "synced"
	SyncSyncing SyncStatus = "syncing"
	SyncLocal   SyncStatus = "local"
	SyncError   SyncStatus = "error"
)

// AppConfig is the per-user application configuration embedded in the
// state document.
type AppConfig struct {
	CloudSyncEnabled bool            `json:"cloud_sync_enabled"`
	LastSync         string          `json:"last_sync,omitempty"`
	Calendar         *SchoolCalendar `json:"calendar,omitempty"`
	UserName         string          `json:"user_name,omitempty"`
	// AppPassword is the local passphrase gating the cached profile. It is
	// independent of the server credential pair.
	AppPassword string `json:"app_password,omitempty"`
}

// AppData is the entire application state for one user: a single JSON
// document, replaced wholesale on every mutation and persisted as one JSONB
// row (last-write-wins).
type AppData struct {
	Classes []SchoolClass `json:"classes"`
	Config  *AppConfig    `json:"config,omitempty"`
}

// FindClass returns the class with the given ID, or nil.
func (d *AppData) FindClass(id string) *SchoolClass {
	for i := range d.Classes {
		if d.Classes[i].ID == id {
			return &d.Classes[i]
		}
	}
	return nil
}
