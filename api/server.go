package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// ServerConfig holds the configuration for the preview server.
type ServerConfig struct {
	DeckPath string // HTML file to preview
	Port     int
	Watch    bool // push reload events when deck files change
}

// Server serves a deck directory over HTTP for previewing.
type Server struct {
	config   ServerConfig
	deckPath string // absolute
	deckDir  string
	engine   *gin.Engine
	watcher  *FileWatcher
}

// NewServer validates the deck path and sets up routes. Call Close when done.
func NewServer(config ServerConfig) (*Server, error) {
	abs, err := filepath.Abs(config.DeckPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deck path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot open deck %s: %w", config.DeckPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("cannot open deck %s: is a directory", config.DeckPath)
	}

	s := &Server{
		config:   config,
		deckPath: abs,
		deckDir:  filepath.Dir(abs),
	}

	if config.Watch {
		s.watcher, err = NewFileWatcher(s.deckDir)
		if err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", s.deckDir, err)
		}
	}

	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Only ever bound to localhost
	r.SetTrustedProxies(nil)

	r.GET("/api/health", HandleHealth(s.deckPath))
	r.GET("/api/outline", HandleOutline(s.deckPath))
	if s.watcher != nil {
		r.GET("/api/watch", HandleWatchSSE(s.watcher))
	}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/"+filepath.Base(s.deckPath))
	})

	// Everything else is a file from the deck directory
	r.NoRoute(HandleDeckFile(s.deckDir, s.watcher != nil))

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// DeckPath is the absolute path of the deck being served.
func (s *Server) DeckPath() string {
	return s.deckPath
}

// URL is the address of the deck on the preview server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d/%s", s.config.Port, filepath.Base(s.deckPath))
}

// Run listens on localhost:Port until ctx is cancelled. Request contexts
// derive from ctx, so open live-reload streams end when shutdown starts.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", s.config.Port))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(listener) }()
	slog.Info("Preview server listening", "url", s.URL())

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview server shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the file watcher, if any.
func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
