package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/event"
	"github.com/eternisai/firebase-notifier/internal/generator"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/page"
	"github.com/eternisai/firebase-notifier/internal/session"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, generator.Request) generator.Result {
	return generator.Result{Success: true, Message: "Generated body copy."}
}

// browser plays the shell side of the protocol and answers calls from replies.
type browser struct {
	t       *testing.T
	ws      *websocket.Conn
	mu      sync.Mutex
	replies map[string]any
	calls   []Message
}

func (b *browser) setReply(name string, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[name] = v
}

func (b *browser) read() Message {
	b.t.Helper()
	require.NoError(b.t, b.ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(b.t, b.ws.ReadJSON(&msg))
	return msg
}

// waitUpdate answers calls until an update named name arrives.
func (b *browser) waitUpdate(name string) Message {
	b.t.Helper()
	for {
		msg := b.read()
		switch msg.Type {
		case TypeCall:
			b.answer(msg)
		case TypeUpdate:
			if msg.Name == name {
				return msg
			}
		}
	}
}

func (b *browser) answer(call Message) {
	b.t.Helper()
	b.mu.Lock()
	b.calls = append(b.calls, call)
	v, ok := b.replies[call.Name]
	b.mu.Unlock()

	reply := Message{Type: TypeReply, ID: call.ID}
	if ok {
		data, err := json.Marshal(v)
		require.NoError(b.t, err)
		reply.Data = data
	}
	require.NoError(b.t, b.ws.WriteJSON(reply))
}

func (b *browser) send(name string, v any) {
	b.t.Helper()
	data, err := json.Marshal(v)
	require.NoError(b.t, err)
	require.NoError(b.t, b.ws.WriteJSON(Message{Type: TypeEvent, Name: name, Data: data}))
}

func (b *browser) callNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.calls))
	for _, c := range b.calls {
		names = append(names, c.Name)
	}
	return names
}

func setup(t *testing.T) (*Hub, *browser) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logger.Discard())
	deps := page.Deps{
		SessionConfig: session.Config{WorkerPath: session.WorkerPath, VAPIDKey: "vapid"},
		Generator:     stubGenerator{},
		Template:      config.DefaultNotifier().Template,
		Logger:        logger.Discard(),
	}
	router := gin.New()
	router.GET("/ws", NewHandler(hub, deps, nil, logger.Discard()).Connect)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	b := &browser{
		t:  t,
		ws: ws,
		replies: map[string]any{
			CallSupported:  true,
			CallPermission: "default",
		},
	}
	return hub, b
}

// nextCall reads until the page issues a call and returns it unanswered.
func (b *browser) nextCall() Message {
	b.t.Helper()
	for {
		if msg := b.read(); msg.Type == TypeCall {
			return msg
		}
	}
}

func decodeString(t *testing.T, msg Message) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(msg.Data, &s))
	return s
}

func TestOpenSendsInitialView(t *testing.T) {
	hub, b := setup(t)

	values := b.waitUpdate(UpdateValues)
	var v editor.Values
	require.NoError(t, json.Unmarshal(values.Data, &v))
	assert.Equal(t, "Welcome to Firebase Notifier!", v.Title)

	assert.Contains(t, decodeString(t, b.waitUpdate(UpdatePreview)), "Welcome to Firebase Notifier!")
	assert.Contains(t, decodeString(t, b.waitUpdate(UpdateLog)), "No notifications yet")
	assert.Equal(t, "loading", decodeString(t, b.waitUpdate(UpdatePermission)))
	assert.Equal(t, "default", decodeString(t, b.waitUpdate(UpdatePermission)))
	assert.Equal(t, []string{CallSupported, CallPermission}, b.callNames())

	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestSendTestFlow(t *testing.T) {
	_, b := setup(t)
	b.waitUpdate(UpdatePermission)
	b.waitUpdate(UpdatePermission)

	b.setReply(CallRequestPermission, "granted")
	b.setReply(CallRegisterWorker, "/")
	b.setReply(CallGetToken, "fcm-token")

	values := editor.DefaultValues(config.DefaultNotifier().Template)

	// Without permission the send only requests it.
	b.send(EventSend, values)
	assert.Equal(t, "granted", decodeString(t, b.waitUpdate(UpdatePermission)))
	assert.Equal(t,
		[]string{CallSupported, CallPermission, CallRequestPermission, CallRegisterWorker, CallGetToken, CallSubscribe},
		b.callNames())

	b.send(EventSend, values)
	logHTML := decodeString(t, b.waitUpdate(UpdateLog))
	assert.Contains(t, logHTML, values.Title)

	names := b.callNames()
	assert.Equal(t, CallShowNotification, names[len(names)-1])
}

func TestForegroundEvent(t *testing.T) {
	_, b := setup(t)
	b.setReply(CallPermission, "granted")
	b.setReply(CallRegisterWorker, "/")
	b.setReply(CallGetToken, "fcm-token")
	b.waitUpdate(UpdatePermission)
	assert.Equal(t, "granted", decodeString(t, b.waitUpdate(UpdatePermission)))

	b.send(EventForeground, map[string]any{
		"notification": map[string]string{"title": "Incoming"},
	})

	assert.Contains(t, decodeString(t, b.waitUpdate(UpdateLog)), "Incoming")
	toast := b.waitUpdate(UpdateToast)
	var e event.Event
	require.NoError(t, json.Unmarshal(toast.Data, &e))
	assert.Equal(t, event.MessageReceived, e.Kind)
	assert.Equal(t, "No Body", e.Description)
}

func TestGenerateEvent(t *testing.T) {
	_, b := setup(t)
	b.waitUpdate(UpdatePermission)

	b.send(EventGenerate, editor.DefaultValues(config.DefaultNotifier().Template))

	assert.Equal(t, "Generated body copy.", decodeString(t, b.waitUpdate(UpdateBody)))
}

func TestRefreshAll(t *testing.T) {
	hub, b := setup(t)
	b.waitUpdate(UpdatePermission)
	b.waitUpdate(UpdatePermission)

	assert.Equal(t, 1, hub.RefreshAll())
	b.waitUpdate(UpdateLog)
}

func TestStartRefreshRejectsBadSchedule(t *testing.T) {
	hub := NewHub(logger.Discard())
	assert.Error(t, hub.StartRefresh("not a schedule"))
}

func TestCloseReleasesPendingCalls(t *testing.T) {
	hub, b := setup(t)

	// The permission read is never answered; closing the socket releases it.
	b.setReply(CallSupported, true)
	msg := b.read()
	for msg.Type != TypeCall || msg.Name != CallSupported {
		msg = b.read()
	}
	b.answer(msg)
	for msg.Type != TypeCall || msg.Name != CallPermission {
		msg = b.read()
	}
	require.NoError(t, b.ws.Close())

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestShutdownClosesConnections(t *testing.T) {
	hub, b := setup(t)
	b.waitUpdate(UpdatePermission)
	b.waitUpdate(UpdatePermission)
	require.NoError(t, hub.StartRefresh("@every 1h"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	hub.Shutdown(ctx)

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestChangesWhilePageBusyEndOnLatestValues(t *testing.T) {
	hub, b := setup(t)

	// Open is waiting on this call, so every change below queues up.
	call := b.nextCall()
	require.Equal(t, CallSupported, call.Name)

	values := editor.DefaultValues(config.DefaultNotifier().Template)
	for i := 0; i < 2*maxQueued; i++ {
		values.Title = fmt.Sprintf("Draft %d", i)
		b.send(EventChange, values)
	}
	b.answer(call)

	preview := decodeString(t, b.waitUpdate(UpdatePreview))
	assert.Contains(t, preview, fmt.Sprintf("Draft %d", 2*maxQueued-1))
	assert.Equal(t, 1, hub.Count())
}

func TestQueueOverflowClosesConnection(t *testing.T) {
	hub, b := setup(t)

	call := b.nextCall()
	require.Equal(t, CallSupported, call.Name)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	for i := 0; i <= maxQueued; i++ {
		b.send(EventEnable, nil)
	}

	for {
		require.NoError(t, b.ws.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg Message
		if err := b.ws.ReadJSON(&msg); err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) {
				assert.False(t, netErr.Timeout(), "connection should be closed, not idle")
			}
			break
		}
	}
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}
