package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kariqs/mebel-api/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.OrderView {
	return &models.OrderView{
		Order: models.Order{ID: 42, UserID: 7, Status: models.OrderStatusPlaced},
		Items: []models.OrderItemView{},
	}
}

func TestWebhookPostsEvent(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EventOrderPlaced, r.Header.Get("X-Event-Type"))
		body, _ := io.ReadAll(r.Body)
		var ev Event
		assert.NoError(t, json.Unmarshal(body, &ev))
		received <- ev
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).Notify(context.Background(), OrderPlaced(sampleOrder()))
	require.NoError(t, err)

	ev := <-received
	assert.Equal(t, EventOrderPlaced, ev.Type)
	assert.Equal(t, uint(42), ev.Order.ID)
}

func TestWebhookReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).Notify(context.Background(), OrderPlaced(sampleOrder()))
	assert.Error(t, err)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Serve))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Notify(context.Background(), OrderPlaced(sampleOrder())))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, EventOrderPlaced, ev.Type)
	assert.Equal(t, uint(42), ev.Order.ID)
}

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubStalledClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Serve))
	defer srv.Close()

	dialHub(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	stalled := hub.snapshot()[0]
	stalled.mu.Lock()

	healthy := dialHub(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, hub.Notify(context.Background(), OrderPlaced(sampleOrder())))
		close(done)
	}()

	healthy.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := healthy.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), EventOrderPlaced)

	dialHub(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 3 }, time.Second, 10*time.Millisecond)

	stalled.mu.Unlock()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not finish")
	}
}

type recordingNotifier struct{ events []Event }

func (r *recordingNotifier) Notify(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return nil
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, Event) error { return assert.AnError }

func TestMultiContinuesAfterFailure(t *testing.T) {
	rec := &recordingNotifier{}
	err := Multi{failingNotifier{}, nil, rec}.Notify(context.Background(), OrderPlaced(sampleOrder()))
	assert.NoError(t, err)
	assert.Len(t, rec.events, 1)
}
