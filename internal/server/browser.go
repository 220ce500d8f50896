package server

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/conneroisu/pagesmith/internal/validation"
)

// browserCommand returns the platform command that opens url.
func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "darwin":
		return exec.Command("open", url), nil
	default:
		return nil, fmt.Errorf("opening a browser is not supported on %s", goos)
	}
}

// OpenBrowser opens url in the user's default browser.
func OpenBrowser(url string) error {
	if err := validation.ValidateURL(url); err != nil {
		return fmt.Errorf("refusing to open browser: %w", err)
	}
	cmd, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return cmd.Start()
}
