package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/event"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/notification"
	"github.com/eternisai/firebase-notifier/internal/page"
	"github.com/eternisai/firebase-notifier/internal/session"
)

const (
	pingInterval = 30 * time.Second
	// maxQueued bounds the tasks waiting for the page loop. Consecutive form
	// changes share one slot.
	maxQueued = 256
)

// task is one unit of page work. change is set for form changes so that a
// run of them collapses into the newest values.
type task struct {
	run    func(context.Context)
	change *editor.Values
}

// Conn is one browser tab. It implements session.Platform and page.View
// by sending calls and updates over the websocket.
type Conn struct {
	id     string
	ws     *websocket.Conn
	logger *logger.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Message

	queueMu sync.Mutex
	queue   []task
	wake    chan struct{}

	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ session.Platform = (*Conn)(nil)
	_ page.View        = (*Conn)(nil)
)

func newConn(ws *websocket.Conn, logger *logger.Logger) *Conn {
	id := uuid.New().String()
	return &Conn{
		id:      id,
		ws:      ws,
		logger:  logger.WithComponent("bridge"),
		pending: make(map[string]chan Message),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (c *Conn) ID() string { return c.id }

// Done is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Close closes the socket and releases pending calls. Safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// Serve runs the page for this connection until the socket closes. Page
// methods only ever run on the calling goroutine.
func (c *Conn) Serve(ctx context.Context, p *page.Page) {
	ctx, cancel := context.WithCancel(logger.WithConnID(ctx, c.id))
	defer cancel()
	defer c.Close()

	log := c.logger.WithContext(ctx)

	c.ws.SetPongHandler(func(string) error {
		log.Debug("pong received")
		return nil
	})

	c.Enqueue(p.Open)

	go c.readLoop(ctx, p)
	go c.pingLoop(ctx)

	for {
		select {
		case <-c.wake:
			c.drain(ctx)
		case <-c.done:
			p.Close()
			return
		}
	}
}

// drain runs queued tasks in order until the queue is empty or the connection closes.
func (c *Conn) drain(ctx context.Context) {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		c.queueMu.Lock()
		if len(c.queue) == 0 {
			c.queueMu.Unlock()
			return
		}
		t := c.queue[0]
		c.queue[0] = task{}
		c.queue = c.queue[1:]
		c.queueMu.Unlock()

		t.run(ctx)
	}
}

// Enqueue schedules task on the page loop. It reports false if the task
// was not queued because the connection is closed or the queue is full.
func (c *Conn) Enqueue(run func(context.Context)) bool {
	return c.push(task{run: run})
}

// changeTask applies a form change. When it is queued right after another
// change the two merge, so the preview always ends on the latest values.
func changeTask(p *page.Page, values editor.Values) task {
	v := &values
	return task{
		run:    func(ctx context.Context) { p.ChangeTemplate(ctx, *v) },
		change: v,
	}
}

func (c *Conn) push(t task) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	c.queueMu.Lock()
	if n := len(c.queue); t.change != nil && n > 0 && c.queue[n-1].change != nil {
		*c.queue[n-1].change = *t.change
		c.queueMu.Unlock()
		return true
	}
	if len(c.queue) >= maxQueued {
		c.queueMu.Unlock()
		return false
	}
	c.queue = append(c.queue, t)
	c.queueMu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

func (c *Conn) readLoop(ctx context.Context, p *page.Page) {
	defer c.Close()
	log := c.logger.WithContext(ctx)

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", slog.String("error", err.Error()))
			} else {
				log.Info("connection closed by client")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn("ignoring malformed message", slog.String("error", err.Error()))
			continue
		}

		switch msg.Type {
		case TypeReply:
			c.resolve(msg)
		case TypeEvent:
			c.dispatch(ctx, p, msg)
		default:
			log.Warn("ignoring message of unknown type", slog.String("type", msg.Type))
		}
	}
}

func (c *Conn) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				c.logger.WithContext(ctx).Error("failed to send ping", slog.String("error", err.Error()))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// dispatch queues a browser event on the page loop. It never blocks: the read
// loop must stay free to deliver replies to calls the page loop is waiting on.
// A browser that outruns the page by more than maxQueued events is disconnected
// rather than having its events dropped; the shell reconnects with a fresh page.
func (c *Conn) dispatch(ctx context.Context, p *page.Page, msg Message) {
	log := c.logger.WithContext(ctx)

	var t task
	switch msg.Name {
	case EventChange, EventSend, EventGenerate, EventPush:
		var values editor.Values
		if err := json.Unmarshal(msg.Data, &values); err != nil {
			log.Warn("invalid form values", slog.String("event", msg.Name), slog.String("error", err.Error()))
			return
		}
		if msg.Name == EventChange {
			t = changeTask(p, values)
			break
		}
		handle := formHandler(p, msg.Name)
		t = task{run: func(ctx context.Context) { handle(ctx, values) }}
	case EventEnable:
		t = task{run: p.EnableNotifications}
	case EventForeground:
		var payload notification.MessagePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			log.Warn("invalid foreground payload", slog.String("error", err.Error()))
			return
		}
		t = task{run: func(ctx context.Context) { p.Foreground(ctx, payload) }}
	default:
		log.Warn("ignoring unknown event", slog.String("event", msg.Name))
		return
	}

	if !c.push(t) {
		select {
		case <-c.done:
		default:
			log.Error("page queue full, closing connection",
				slog.String("event", msg.Name),
				slog.Int("queued", maxQueued))
			c.Close()
		}
	}
}

func formHandler(p *page.Page, name string) func(context.Context, editor.Values) {
	switch name {
	case EventGenerate:
		return p.Generate
	case EventPush:
		return p.SendPush
	default:
		return p.SendTest
	}
}

func (c *Conn) resolve(msg Message) {
	c.mu.Lock()
	ch, ok := c.pending[msg.ID]
	delete(c.pending, msg.ID)
	c.mu.Unlock()

	if !ok {
		c.logger.Warn("reply for unknown call", slog.String("call_id", msg.ID))
		return
	}
	ch <- msg
}

func (c *Conn) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(msg)
}

func encode(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// call sends a command and waits for its reply. There is no timeout; the
// call is released when the connection closes.
func (c *Conn) call(ctx context.Context, name string, args, out any) error {
	data, err := encode(args)
	if err != nil {
		return fmt.Errorf("encode %s arguments: %w", name, err)
	}

	id := uuid.New().String()
	reply := make(chan Message, 1)

	c.mu.Lock()
	c.pending[id] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.send(Message{Type: TypeCall, ID: id, Name: name, Data: data}); err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}

	select {
	case msg := <-reply:
		if msg.Error != "" {
			return fmt.Errorf("%s failed: %s", name, msg.Error)
		}
		if out != nil && len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, out); err != nil {
				return fmt.Errorf("decode %s reply: %w", name, err)
			}
		}
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// update sends a one-way view update. Failures are logged only.
func (c *Conn) update(name string, v any) {
	data, err := encode(v)
	if err != nil {
		c.logger.Error("failed to encode update", slog.String("update", name), slog.String("error", err.Error()))
		return
	}
	if err := c.send(Message{Type: TypeUpdate, Name: name, Data: data}); err != nil {
		c.logger.Debug("failed to send update",
			slog.String("conn_id", c.id),
			slog.String("update", name),
			slog.String("error", err.Error()))
	}
}

func (c *Conn) Supported(ctx context.Context) (bool, error) {
	var supported bool
	err := c.call(ctx, CallSupported, nil, &supported)
	return supported, err
}

func (c *Conn) CurrentPermission(ctx context.Context) (session.Permission, error) {
	var permission string
	if err := c.call(ctx, CallPermission, nil, &permission); err != nil {
		return session.Default, err
	}
	return session.ParsePermission(permission), nil
}

func (c *Conn) RequestPermission(ctx context.Context) (session.Permission, error) {
	var permission string
	if err := c.call(ctx, CallRequestPermission, nil, &permission); err != nil {
		return session.Default, err
	}
	return session.ParsePermission(permission), nil
}

func (c *Conn) RegisterWorker(ctx context.Context, path string) (session.Registration, error) {
	var scope string
	err := c.call(ctx, CallRegisterWorker, registerWorkerArgs{Path: path}, &scope)
	return session.Registration(scope), err
}

func (c *Conn) GetToken(ctx context.Context, vapidKey string, reg session.Registration) (string, error) {
	var token string
	err := c.call(ctx, CallGetToken, getTokenArgs{VAPIDKey: vapidKey, Registration: string(reg)}, &token)
	return token, err
}

func (c *Conn) Subscribe(ctx context.Context) (session.Unsubscribe, error) {
	if err := c.call(ctx, CallSubscribe, nil, nil); err != nil {
		return nil, err
	}
	return func() { c.update(UpdateUnsubscribe, nil) }, nil
}

func (c *Conn) ShowNotification(ctx context.Context, data notification.Data) error {
	return c.call(ctx, CallShowNotification, localNotification{
		Title: data.Title,
		Body:  data.Body,
		Icon:  data.IconURL,
		Image: data.ImageURL,
	}, nil)
}

func (c *Conn) SetValues(values editor.Values) { c.update(UpdateValues, values) }

func (c *Conn) SetBody(body string) { c.update(UpdateBody, body) }

func (c *Conn) SetFieldErrors(errs editor.FieldErrors) {
	if errs == nil {
		errs = editor.FieldErrors{}
	}
	c.update(UpdateFieldErrors, errs)
}

func (c *Conn) RenderPreview(html string) { c.update(UpdatePreview, html) }

func (c *Conn) RenderLog(html string) { c.update(UpdateLog, html) }

func (c *Conn) SetPermission(permission session.Permission) {
	c.update(UpdatePermission, permission)
}

func (c *Conn) Toast(e event.Event) { c.update(UpdateToast, e) }
