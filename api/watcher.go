package api

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
)

// DefaultWatchExtensions are the deck files whose changes trigger a notification.
var DefaultWatchExtensions = []string{".html", ".css", ".js"}

const defaultDebounce = 300 * time.Millisecond

// FileWatcher watches a deck directory and fans change notifications out to
// subscribers. The message sent is the path of the last changed file.
type FileWatcher struct {
	watcher    *fsnotify.Watcher
	dir        string
	extensions map[string]bool
	debounce   time.Duration
	clients    map[chan string]bool
	clientsMu  sync.RWMutex
}

// NewFileWatcher watches dir for writes to files with the given extensions
// (DefaultWatchExtensions when none are given).
func NewFileWatcher(dir string, extensions ...string) (*FileWatcher, error) {
	return newFileWatcher(dir, defaultDebounce, extensions...)
}

func newFileWatcher(dir string, debounce time.Duration, extensions ...string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = DefaultWatchExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	fw := &FileWatcher{
		watcher:    watcher,
		dir:        dir,
		extensions: exts,
		debounce:   debounce,
		clients:    make(map[chan string]bool),
	}

	go fw.watch()

	return fw, nil
}

// watch listens for file system events and notifies clients
func (fw *FileWatcher) watch() {
	// Editors often write a file several times in a row
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !fw.extensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			slog.Debug("File change detected", "file", event.Name, "op", event.Op)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			changed := event.Name
			debounceTimer = time.AfterFunc(fw.debounce, func() {
				fw.notifyClients(changed)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// notifyClients sends a message to all subscribers without blocking
func (fw *FileWatcher) notifyClients(message string) {
	fw.clientsMu.RLock()
	defer fw.clientsMu.RUnlock()

	for client := range fw.clients {
		select {
		case client <- message:
		default:
			// Client channel is full, skip
		}
	}
}

// Subscribe adds a new client channel to receive notifications
func (fw *FileWatcher) Subscribe(client chan string) {
	fw.clientsMu.Lock()
	defer fw.clientsMu.Unlock()
	fw.clients[client] = true
}

// Unsubscribe removes a client channel and closes it
func (fw *FileWatcher) Unsubscribe(client chan string) {
	fw.clientsMu.Lock()
	defer fw.clientsMu.Unlock()
	if fw.clients[client] {
		delete(fw.clients, client)
		close(client)
	}
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

// HandleWatchSSE streams file-change events to the browser.
// GET /api/watch
func HandleWatchSSE(fileWatcher *FileWatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		clientChan := make(chan string, 10)
		fileWatcher.Subscribe(clientChan)
		defer fileWatcher.Unsubscribe(clientChan)

		c.SSEvent("connected", "ok")
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case msg := <-clientChan:
				c.SSEvent("file-change", filepath.Base(msg))
				c.Writer.Flush()
			case <-clientGone:
				slog.Debug("SSE client disconnected")
				return
			}
		}
	}
}
