// Package server serves the built site with live reload.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/pagesmith/internal/logging"
	"github.com/conneroisu/pagesmith/internal/version"
)

// Routes owned by the server. They are namespaced to stay clear of site
// files.
const (
	ReloadPath = "/_pagesmith/ws"
	HealthPath = "/_pagesmith/health"
)

// Config holds preview server settings.
type Config struct {
	Host string
	Port int
	// Root is the directory served, normally the directory of the build
	// output.
	Root string
	// Index is the file served for directory requests.
	Index string
	// Stats, when set, is reported under "builds" by the health route.
	Stats func() any
}

// PreviewServer serves the output directory and pushes reloads to browsers.
type PreviewServer struct {
	cfg    Config
	logger logging.Logger
	hub    *hub

	httpServer   *http.Server
	listener     net.Listener
	serverMutex  sync.RWMutex
	ready        chan struct{}
	readyOnce    sync.Once
	stopHub      context.CancelFunc
	hubDone      sync.WaitGroup
	shutdownOnce sync.Once
	shutdownErr  error
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a preview server.
func New(cfg Config, logger logging.Logger) *PreviewServer {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.Index == "" {
		cfg.Index = "index.html"
	}
	logger = logger.WithComponent("server")

	return &PreviewServer{
		cfg:    cfg,
		logger: logger,
		hub:    newHub(logger),
		ready:  make(chan struct{}),
	}
}

// Handler returns the server's routes.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ReloadPath, s.handleWebSocket)
	mux.HandleFunc(HealthPath, s.handleHealth)
	mux.HandleFunc("/", s.handleStatic)
	return LoggingMiddleware(s.logger)(SecurityMiddleware(mux))
}

// Start listens and serves until ctx is cancelled or Shutdown is called.
func (s *PreviewServer) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	s.hub.start(hubCtx)
	s.hubDone.Add(1)
	go func() {
		defer s.hubDone.Done()
		s.hub.run(hubCtx)
	}()

	s.serverMutex.Lock()
	s.listener = ln
	s.stopHub = stopHub
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.serverMutex.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	s.logger.Info(ctx, "Preview server listening", "url", s.URL())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		<-serveErr
		return err
	case err := <-serveErr:
		stopHub()
		s.hubDone.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// Ready is closed once the server is listening.
func (s *PreviewServer) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, "" before Start.
func (s *PreviewServer) Addr() string {
	s.serverMutex.RLock()
	defer s.serverMutex.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the base URL of the running server.
func (s *PreviewServer) URL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	return "http://" + addr
}

// Clients returns the number of connected live reload clients.
func (s *PreviewServer) Clients() int {
	return int(s.hub.count.Load())
}

// Reload tells every connected browser to reload.
func (s *PreviewServer) Reload(ctx context.Context) error {
	msg, err := json.Marshal(UpdateMessage{Type: "reload", Timestamp: time.Now()})
	if err != nil {
		return err
	}
	return s.hub.publish(ctx, msg)
}

// Shutdown stops the server and disconnects live reload clients. It is safe
// to call more than once.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.serverMutex.RLock()
		srv := s.httpServer
		stopHub := s.stopHub
		s.serverMutex.RUnlock()

		if srv != nil {
			s.shutdownErr = srv.Shutdown(ctx)
		}
		if stopHub != nil {
			stopHub()
		}
		s.hubDone.Wait()
	})
	return s.shutdownErr
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	body := map[string]interface{}{
		"status":  "ok",
		"clients": s.Clients(),
		"version": version.GetShortVersion(),
	}
	if s.cfg.Stats != nil {
		body["builds"] = s.cfg.Stats()
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (s *PreviewServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	file := filepath.Join(s.cfg.Root, filepath.FromSlash(name))
	if info, err := os.Stat(file); err == nil && info.IsDir() {
		file = filepath.Join(file, s.cfg.Index)
	}

	if !strings.EqualFold(filepath.Ext(file), ".html") {
		http.ServeFile(w, r, file)
		return
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error(r.Context(), err, "Failed to read page", "path", file)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := InjectReloadClient(data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", fmt.Sprint(len(page)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(page)
}
