package websocket_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"designhub-backend/internal/models"
	"designhub-backend/internal/websocket"
)

func startHub(t *testing.T) (*websocket.Hub, *ws.Conn) {
	t.Helper()
	hub := websocket.NewHub([]string{"http://localhost:5173"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)
	return hub, conn
}

func TestHub_NotifyNewOrder(t *testing.T) {
	hub, conn := startHub(t)

	hub.NotifyNewOrder(models.Order{ID: "o1", ClientName: "Ana"})

	var evt websocket.Event
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, websocket.EventNewOrder, evt.Type)
	require.NotNil(t, evt.Order)
	assert.Equal(t, "o1", evt.Order.ID)
}

func TestHub_NotifyOrdersChanged(t *testing.T) {
	hub, conn := startHub(t)

	hub.NotifyOrdersChanged()

	var evt websocket.Event
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, websocket.EventOrdersChanged, evt.Type)
	assert.Nil(t, evt.Order)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, conn := startHub(t)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	hub := websocket.NewHub([]string{"http://localhost:5173"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hub.ClientCount())
}
