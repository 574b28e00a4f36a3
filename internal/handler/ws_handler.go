package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/middleware"
	"github.com/alextrocado/edumanage/internal/service"
	ws "github.com/alextrocado/edumanage/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams sync status changes to connected clients.
type WSHandler struct {
	stateService *service.StateService
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(stateService *service.StateService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		stateService: stateService,
		log:          log.With().Str("component", "ws_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// SyncStatusStream godoc
// WS /ws/v1/sync/stream
// Upgrades to WebSocket and pushes a status event whenever the cloud
// persistence state of the user's data changes.
func (h *WSHandler) SyncStatusStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	userID := claims.UserID

	wsLog := h.log.With().Str("user_id", userID).Logger()
	wsLog.Info().Msg("Client connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Push loop: poll the status and push only on change.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		last := ""
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := string(h.stateService.SyncStatus(ctx, userID))
				if status == last {
					continue
				}
				last = status
				if err := h.writeStatus(ctx, conn, userID, status); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		var msg ws.RequestEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionRefresh:
			status := string(h.stateService.SyncStatus(ctx, userID))
			if err := h.writeStatus(ctx, conn, userID, status); err != nil {
				return
			}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

func (h *WSHandler) writeStatus(ctx context.Context, conn *ws.Conn, userID, status string) error {
	lastSync := ""
	if data, err := h.stateService.Load(ctx, userID); err == nil && data.Config != nil {
		lastSync = data.Config.LastSync
	}
	return conn.WriteTyped(ws.StatusResponse{
		Event:      ws.EventStatus,
		SyncStatus: status,
		LastSync:   lastSync,
	})
}
