package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const healthPollInterval = 50 * time.Millisecond

// ErrForeignService means something other than a revealkit preview answers
// on the port.
var ErrForeignService = errors.New("in use by another service (not revealkit)")

// errNotReady is a non-200 health response, which a starting server may give.
var errNotReady = errors.New("health check not ready")

// OtherDeckError means a revealkit preview on the port serves a different deck.
type OtherDeckError struct {
	URL      string
	DeckPath string
}

func (e *OtherDeckError) Error() string {
	return fmt.Sprintf("another preview is already running at %s, serving: %s", e.URL, e.DeckPath)
}

// FetchHealth queries GET /api/health on the server at baseURL once.
func FetchHealth(ctx context.Context, client *http.Client, baseURL string) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errNotReady, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil || health.DeckPath == "" {
		return nil, ErrForeignService
	}
	return &health, nil
}

// WaitForDeck polls the server at baseURL until it reports serving deckPath.
// serverErr delivers the error of a server that exited during startup. ctx
// bounds the wait.
func WaitForDeck(ctx context.Context, baseURL, deckPath string, serverErr <-chan error) error {
	client := &http.Client{Timeout: time.Second}
	ticker := time.NewTicker(healthPollInterval)
	defer ticker.Stop()

	// Set once something answers on the port without being a ready preview
	responding := false
	for {
		health, err := FetchHealth(ctx, client, baseURL)
		switch {
		case err == nil && health.DeckPath == deckPath:
			return nil
		case err == nil:
			return &OtherDeckError{URL: baseURL, DeckPath: health.DeckPath}
		case errors.Is(err, ErrForeignService):
			return fmt.Errorf("%s is %w", baseURL, err)
		}
		if errors.Is(err, errNotReady) {
			responding = true
		}

		select {
		case err := <-serverErr:
			return fmt.Errorf("server failed to start: %w", err)
		case <-ctx.Done():
			if responding {
				return fmt.Errorf("%s is %w", baseURL, ErrForeignService)
			}
			return fmt.Errorf("timeout waiting for server to become ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
