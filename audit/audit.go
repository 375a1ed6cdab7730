// Package audit renders a reveal.js deck in a headless browser and reports
// slides whose content is larger than the slide itself.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultReadyTimeout   = 30 * time.Second
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)

// ErrReadinessTimeout is returned when reveal.js does not report ready within
// Options.ReadyTimeout.
var ErrReadinessTimeout = errors.New("timed out waiting for reveal.js to become ready")

// Measurement is the raw layout of one slide as read from the browser.
type Measurement struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	ScrollHeight int    `json:"scrollHeight"`
	ClientHeight int    `json:"clientHeight"`
	ScrollWidth  int    `json:"scrollWidth"`
	ClientWidth  int    `json:"clientWidth"`

	// TopLevel is set for direct children of .slides; Nested counts the
	// sections directly inside this one.
	TopLevel bool `json:"topLevel"`
	Nested   int  `json:"nested"`
}

// IsStackContainer reports whether m is a top-level section that only holds a
// vertical stack. Containers are not slides and are never evaluated.
func (m Measurement) IsStackContainer() bool {
	return m.TopLevel && m.Nested > 0
}

// Renderer starts rendering sessions.
type Renderer interface {
	// Open launches an isolated browser session and loads url in it. ctx
	// bounds launching and loading only; the returned session outlives it.
	Open(ctx context.Context, url string) (Session, error)
}

// Session is one loaded document. Callers must Close it.
type Session interface {
	// WaitReady blocks until the presentation framework reports ready or ctx ends.
	WaitReady(ctx context.Context) error
	// Measure reads the extents of every top-level and nested section.
	Measure(ctx context.Context) ([]Measurement, error)
	Close() error
}

// Options configures an Auditor.
type Options struct {
	// ReadyTimeout bounds loading the deck and waiting for reveal.js to
	// report ready.
	ReadyTimeout time.Duration
}

// Auditor runs one overflow pass per Check call.
type Auditor struct {
	renderer Renderer
	opts     Options
}

// New returns an Auditor using renderer. A zero ReadyTimeout uses DefaultReadyTimeout.
func New(renderer Renderer, opts Options) *Auditor {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = DefaultReadyTimeout
	}
	return &Auditor{renderer: renderer, opts: opts}
}

// Check renders target (a file path or an http(s) URL) and measures every slide.
// The session is closed whether or not the pass succeeds.
func (a *Auditor) Check(ctx context.Context, target string) (*Report, error) {
	location, err := ResolveTarget(target)
	if err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, a.opts.ReadyTimeout)
	defer cancel()

	slog.Debug("Opening deck", "url", location)
	session, err := a.renderer.Open(loadCtx, location)
	if err != nil {
		if a.timedOut(ctx, loadCtx) {
			return nil, fmt.Errorf("%w (waited %v)", ErrReadinessTimeout, a.opts.ReadyTimeout)
		}
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			slog.Warn("Failed to close browser session", "error", closeErr)
		}
	}()

	if err := session.WaitReady(loadCtx); err != nil {
		if a.timedOut(ctx, loadCtx) {
			return nil, fmt.Errorf("%w (waited %v)", ErrReadinessTimeout, a.opts.ReadyTimeout)
		}
		return nil, fmt.Errorf("failed waiting for reveal.js: %w", err)
	}

	measurements, err := session.Measure(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to measure slides: %w", err)
	}

	report := &Report{Target: target, Slides: make([]SlideResult, 0, len(measurements))}
	for _, m := range measurements {
		if m.IsStackContainer() {
			continue
		}
		report.Slides = append(report.Slides, Evaluate(m))
	}

	slog.Debug("Measured slides", "count", len(report.Slides), "overflowing", len(report.Overflowing()))
	return report, nil
}

// timedOut reports whether loadCtx hit its own deadline, as opposed to the
// caller cancelling ctx.
func (a *Auditor) timedOut(ctx, loadCtx context.Context) bool {
	return errors.Is(loadCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
}

// ResolveTarget turns a deck path into a URL the browser can load. http,
// https and file URLs are passed through; anything else must be an existing file.
func ResolveTarget(target string) (string, error) {
	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(target, scheme) {
			return target, nil
		}
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("cannot open deck %s: %w", target, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot open deck %s: is a directory", target)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve deck path: %w", err)
	}

	path := filepath.ToSlash(abs)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String(), nil
}
