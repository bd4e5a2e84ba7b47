// Package navigate carries out a submitted login request: it prints the
// request and can hand the URL to the system browser or the clipboard.
package navigate

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"issuerpick/internal/domain"
	"issuerpick/internal/logging"
)

// ErrCannotOpen is returned when a submission cannot be shown in a browser
var ErrCannotOpen = errors.New("cannot open in browser")

// Options select what happens besides printing
type Options struct {
	Open bool
	Copy bool
}

// Replaced in tests
var (
	startCommand   = func(name string, args ...string) error { return exec.Command(name, args...).Start() }
	writeClipboard = clipboard.WriteAll
)

// Navigate prints sub to w and then opens or copies it as opts ask. Printing
// always happens first, so the request is visible even when opening fails.
func Navigate(w io.Writer, sub domain.Submission, opts Options) error {
	if err := Print(w, sub); err != nil {
		return err
	}
	if opts.Copy {
		if err := writeClipboard(sub.URL); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		logging.Infof("copied %s to clipboard", sub.URL)
	}
	if opts.Open {
		if err := Open(sub); err != nil {
			return err
		}
	}
	return nil
}

// Print writes the request line and, for POST, the encoded body
func Print(w io.Writer, sub domain.Submission) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", sub.Method, sub.URL); err != nil {
		return err
	}
	if body := sub.Body(); body != "" {
		if _, err := fmt.Fprintln(w, body); err != nil {
			return err
		}
	}
	return nil
}

// Open starts the system browser on the submission URL. A browser can only
// be pointed at a GET request.
func Open(sub domain.Submission) error {
	if sub.Method != "GET" {
		return fmt.Errorf("%w: %s requests need a form post", ErrCannotOpen, sub.Method)
	}
	name, args := BrowserCommand(runtime.GOOS, sub.URL)
	logging.Infof("opening %s with %s", sub.URL, name)
	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotOpen, err)
	}
	return nil
}

// BrowserCommand returns the command that opens url on goos
func BrowserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
