package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing    Action = "ping"
	ActionRefresh Action = "refresh"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventStatus Event = "status"
	EventPong   Event = "pong"
)

// StatusResponse reports the cloud persistence state of the user's data.
type StatusResponse struct {
	Event      Event  `json:"event"`
	SyncStatus string `json:"sync_status"`
	LastSync   string `json:"last_sync,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
