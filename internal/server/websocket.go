package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/pagesmith/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub fans reload messages out to connected browsers. Only run touches the
// client set and closes send channels.
type hub struct {
	ctx        context.Context
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	running    atomic.Bool
	count      atomic.Int64
	logger     logging.Logger
}

func newHub(logger logging.Logger) *hub {
	return &hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// start marks the hub running. run must follow.
func (h *hub) start(ctx context.Context) {
	h.ctx = ctx
	h.running.Store(true)
}

func (h *hub) run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			h.drop(c)
		}
		h.running.Store(false)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			h.logger.Debug(ctx, "Client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Debug(ctx, "Client disconnected", "clients", len(h.clients))
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *hub) drop(c *client) {
	delete(h.clients, c)
	h.count.Store(int64(len(h.clients)))
	close(c.send)
	c.conn.CloseNow()
}

// publish queues message for every client. It is a no-op while the hub is
// not running.
func (h *hub) publish(ctx context.Context, message []byte) error {
	if !h.running.Load() {
		return nil
	}
	select {
	case h.broadcast <- message:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}
	if !s.hub.running.Load() {
		http.Error(w, "Live reload unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// checkOrigin has already run.
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	c := &client{conn: conn, send: make(chan []byte, 16)}
	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.CloseNow()
		return
	}

	go c.writePump()
	c.readPump(s.hub)
}

// checkOrigin accepts browsers on the server's own host and its loopback
// aliases.
func (s *PreviewServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	if originURL.Host == r.Host {
		return true
	}

	port := originURL.Port()
	if port == "" || port != s.port() {
		return false
	}
	switch originURL.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// readPump drains the connection until it fails or the hub stops. Browsers
// never send anything, but reading keeps control frames flowing.
func (c *client) readPump(h *hub) {
	for {
		if _, _, err := c.conn.Read(h.ctx); err != nil {
			break
		}
	}

	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (s *PreviewServer) port() string {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	if s.listener != nil {
		if _, port, err := net.SplitHostPort(s.listener.Addr().String()); err == nil {
			return port
		}
	}
	return fmt.Sprint(s.cfg.Port)
}
