package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestConn(t *testing.T) (*Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	served := make(chan *Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		served <- Wrap(raw)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	server := <-served
	t.Cleanup(func() { server.Close() })
	return server, client
}

func TestConn_WriteTyped(t *testing.T) {
	server, client := dialTestConn(t)

	require.NoError(t, server.WriteTyped(PongResponse{Event: EventPong}))

	var got PongResponse
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, EventPong, got.Event)
}

func TestConn_WriteError(t *testing.T) {
	server, client := dialTestConn(t)

	require.NoError(t, server.WriteError("unknown action: foo"))

	var got ErrorResponse
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, EventError, got.Event)
	assert.Equal(t, "unknown action: foo", got.Error)
}

// Two goroutines send frames at once, as the status push loop and the
// read loop's replies do on a live connection. Every frame the client
// receives must still decode cleanly.
func TestConn_ConcurrentWriters(t *testing.T) {
	server, client := dialTestConn(t)

	const perWriter = 50

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			server.WriteTyped(StatusResponse{Event: EventStatus, SyncStatus: "synced"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			server.WriteTyped(PongResponse{Event: EventPong})
		}
	}()

	for i := 0; i < 2*perWriter; i++ {
		var frame struct {
			Event Event `json:"event"`
		}
		require.NoError(t, client.ReadJSON(&frame))
		assert.Contains(t, []Event{EventStatus, EventPong}, frame.Event)
	}
	wg.Wait()
}
