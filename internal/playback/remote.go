package playback

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nur/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// ErrNoRemoteClient is returned by Open when no browser is connected.
var ErrNoRemoteClient = errors.New("no remote playback client connected")

// RemoteCommand is sent to connected clients to drive their audio element.
type RemoteCommand struct {
	Op        string  `json:"op"`
	Transport uint64  `json:"transport"`
	URL       string  `json:"url,omitempty"`
	Rate      float64 `json:"rate,omitempty"`
	Position  float64 `json:"position"`
}

// RemoteEvent is reported by a client about one of its transports.
type RemoteEvent struct {
	Transport uint64  `json:"transport"`
	Type      string  `json:"type"`
	Position  float64 `json:"position"`
	Duration  float64 `json:"duration"`
	Error     string  `json:"error,omitempty"`
}

// SessionMessage pushes the current session to clients so their controls
// follow playback started elsewhere.
type SessionMessage struct {
	Op      string  `json:"op"`
	Session Session `json:"session"`
}

// RemoteHub is an Opener whose transports live in connected browsers. Each
// transport gets a fresh id; events for released ids are ignored.
type RemoteHub struct {
	logger   *zap.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	mu        sync.Mutex
	clients   map[*remoteClient]struct{}
	listeners map[uint64]Listener
	nextID    uint64
}

type remoteClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewRemoteHub(logger *zap.Logger, m *metrics.Metrics) *RemoteHub {
	return &RemoteHub{
		logger:  logger.Named("remote"),
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		clients:   make(map[*remoteClient]struct{}),
		listeners: make(map[uint64]Listener),
	}
}

// Open registers a transport and asks clients to load url.
func (h *RemoteHub) Open(url string, listener Listener) (Transport, error) {
	h.mu.Lock()
	if len(h.clients) == 0 {
		h.mu.Unlock()
		return nil, ErrNoRemoteClient
	}
	h.nextID++
	id := h.nextID
	h.listeners[id] = listener
	h.mu.Unlock()

	t := &remoteTransport{hub: h, id: id}
	h.command(RemoteCommand{Op: "load", Transport: id, URL: url})
	return t, nil
}

// Clients returns the number of connected clients.
func (h *RemoteHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends v as JSON to every client.
func (h *RemoteHub) Broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode broadcast", zap.Error(err))
		return
	}

	h.mu.Lock()
	var orphaned []Listener
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("Dropping slow remote client")
			orphaned = append(orphaned, h.dropLocked(c)...)
		}
	}
	h.mu.Unlock()
	h.abandon(orphaned)
}

// PublishSession broadcasts s as a "session" message.
func (h *RemoteHub) PublishSession(s Session) {
	h.Broadcast(SessionMessage{Op: "session", Session: s})
}

// ServeWS upgrades the request and serves the client until it disconnects.
func (h *RemoteHub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &remoteClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetRemoteClients(n)
	h.logger.Info("Remote client connected", zap.String("remote", r.RemoteAddr))

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *RemoteHub) readPump(c *remoteClient) {
	defer func() {
		h.mu.Lock()
		orphaned := h.dropLocked(c)
		n := len(h.clients)
		h.mu.Unlock()
		h.metrics.SetRemoteClients(n)
		h.logger.Info("Remote client disconnected")
		h.abandon(orphaned)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev RemoteEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Remote client read failed", zap.Error(err))
			}
			return
		}
		h.HandleEvent(ev)
	}
}

func (h *RemoteHub) writePump(c *remoteClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dropLocked unregisters c; h.mu must be held. When c was the last client
// the open transports have nowhere to play, so their listeners are removed
// and returned for abandon.
func (h *RemoteHub) dropLocked(c *remoteClient) []Listener {
	if _, ok := h.clients[c]; !ok {
		return nil
	}
	delete(h.clients, c)
	c.once.Do(func() { close(c.send) })

	if len(h.clients) > 0 || len(h.listeners) == 0 {
		return nil
	}
	orphaned := make([]Listener, 0, len(h.listeners))
	for id, l := range h.listeners {
		orphaned = append(orphaned, l)
		delete(h.listeners, id)
	}
	return orphaned
}

// abandon fails transports whose last client went away. Must be called
// without h.mu held.
func (h *RemoteHub) abandon(listeners []Listener) {
	if len(listeners) > 0 {
		h.logger.Warn("Last remote client gone, ending playback", zap.Int("transports", len(listeners)))
	}
	for _, l := range listeners {
		l.OnError(ErrNoRemoteClient)
	}
}

// HandleEvent routes a client event to the listener of its transport.
func (h *RemoteHub) HandleEvent(ev RemoteEvent) {
	h.mu.Lock()
	listener, ok := h.listeners[ev.Transport]
	h.mu.Unlock()
	if !ok {
		h.logger.Debug("Ignoring event for released transport",
			zap.Uint64("transport", ev.Transport),
			zap.String("type", ev.Type))
		return
	}

	switch ev.Type {
	case "metadata":
		listener.OnMetadata(ev.Duration)
	case "progress":
		listener.OnProgress(ev.Position, ev.Duration)
	case "ended":
		listener.OnEnded()
	case "error":
		msg := ev.Error
		if msg == "" {
			msg = "remote transport error"
		}
		listener.OnError(errors.New(msg))
	default:
		h.logger.Debug("Unknown remote event", zap.String("type", ev.Type))
	}
}

func (h *RemoteHub) command(cmd RemoteCommand) {
	h.Broadcast(cmd)
}

func (h *RemoteHub) release(id uint64) {
	h.mu.Lock()
	delete(h.listeners, id)
	h.mu.Unlock()
	h.command(RemoteCommand{Op: "release", Transport: id})
}

type remoteTransport struct {
	hub *RemoteHub
	id  uint64
}

func (t *remoteTransport) Play() error {
	t.hub.command(RemoteCommand{Op: "play", Transport: t.id})
	return nil
}

func (t *remoteTransport) Pause() error {
	t.hub.command(RemoteCommand{Op: "pause", Transport: t.id})
	return nil
}

func (t *remoteTransport) Seek(seconds float64) error {
	t.hub.command(RemoteCommand{Op: "seek", Transport: t.id, Position: seconds})
	return nil
}

func (t *remoteTransport) SetRate(rate float64) error {
	t.hub.command(RemoteCommand{Op: "rate", Transport: t.id, Rate: rate})
	return nil
}

func (t *remoteTransport) Release() {
	t.hub.release(t.id)
}
