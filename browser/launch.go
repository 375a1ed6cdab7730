package browser

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Open opens url in the user's default browser. Failure is logged with the
// URL so the user can open it by hand.
func Open(url string) {
	if err := launch(url); err != nil {
		slog.Warn("Failed to open browser", "error", err)
		slog.Info("Manual browser access", "url", url)
	}
}

// launch opens the specified URL in the default browser
func launch(url string) error {
	cmd, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// command builds the platform-specific command that opens url.
func command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
