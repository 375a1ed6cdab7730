package audit

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

//go:embed measure.js
var measureScript string

const (
	readyExpression = `typeof Reveal !== 'undefined' && Reveal.isReady()`
	pollInterval    = 100 * time.Millisecond
)

// ChromeRenderer renders decks in a headless Chrome driven over the DevTools
// protocol. Each Open starts its own browser process.
type ChromeRenderer struct {
	Width  int
	Height int

	// ExecPath overrides the Chrome binary lookup when set.
	ExecPath string
}

// NewChromeRenderer returns a renderer with the given viewport. Non-positive
// sizes fall back to 1920x1080.
func NewChromeRenderer(width, height int) *ChromeRenderer {
	if width <= 0 {
		width = DefaultViewportWidth
	}
	if height <= 0 {
		height = DefaultViewportHeight
	}
	return &ChromeRenderer{Width: width, Height: height}
}

// Open implements Renderer. The browser is torn down if ctx ends before the
// deck has loaded.
func (r *ChromeRenderer) Open(ctx context.Context, url string) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(r.Width, r.Height),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	// The browser must survive ctx, which only bounds loading.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			slog.Debug(fmt.Sprintf(format, args...), "source", "chromedp")
		}),
	)

	s := &chromeSession{
		ctx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}

	stop := context.AfterFunc(ctx, s.cancel)
	defer stop()

	// The first Run allocates the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, loadError(ctx, "failed to launch browser", err)
	}

	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(r.Width), int64(r.Height)),
		chromedp.Navigate(url),
	)
	if err != nil {
		s.Close()
		return nil, loadError(ctx, "failed to load deck "+url, err)
	}

	return s, nil
}

// loadError prefers ctx's error when ctx ending is what interrupted Open.
func loadError(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", msg, ctxErr)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions in the tab. ctx bounds the call without tearing the
// tab down.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// WaitReady evaluates the readiness expression until it is true. Only ctx
// bounds the wait.
func (s *chromeSession) WaitReady(ctx context.Context) error {
	return pollUntil(ctx, pollInterval, func(ctx context.Context) (bool, error) {
		var ready bool
		err := s.run(ctx, chromedp.Evaluate(readyExpression, &ready))
		return ready, err
	})
}

func (s *chromeSession) Measure(ctx context.Context) ([]Measurement, error) {
	var measurements []Measurement
	if err := s.run(ctx, chromedp.Evaluate(measureScript, &measurements)); err != nil {
		return nil, err
	}
	return measurements, nil
}

// Close shuts the tab and the browser process down.
func (s *chromeSession) Close() error {
	s.cancel()
	return nil
}

// pollUntil calls check every interval until it reports true or ctx ends.
// Check errors are logged and retried, since the page may still be loading.
func pollUntil(ctx context.Context, interval time.Duration, check func(context.Context) (bool, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := check(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil && ctx.Err() == nil {
			slog.Debug("Readiness check failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
