// Package clipboard copies text with wl-clipboard (Wayland) or xclip/xsel (X11).
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/logging"
)

// ErrUnavailable is returned when no clipboard tool was found.
var ErrUnavailable = errors.New("no clipboard tool available (install wl-clipboard or xclip)")

var _ port.Clipboard = (*Adapter)(nil)

// Adapter implements port.Clipboard using system clipboard tools.
type Adapter struct {
	copyCmd string
	run     func(ctx context.Context, name string, args []string, stdin string) error
}

// New detects the clipboard tool for the current session.
func New() *Adapter {
	return newAdapter(os.Getenv, exec.LookPath)
}

func newAdapter(getenv func(string) string, lookPath func(string) (string, error)) *Adapter {
	a := &Adapter{run: runTool}

	if getenv("WAYLAND_DISPLAY") != "" {
		if path, err := lookPath("wl-copy"); err == nil {
			a.copyCmd = path
		}
	}
	if a.copyCmd == "" && getenv("DISPLAY") != "" {
		for _, tool := range []string{"xclip", "xsel"} {
			if path, err := lookPath(tool); err == nil {
				a.copyCmd = path
				break
			}
		}
	}
	return a
}

// Tool returns the detected tool path, or "" when none was found.
func (a *Adapter) Tool() string {
	return a.copyCmd
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)

	if a.copyCmd == "" {
		return ErrUnavailable
	}

	var args []string
	switch filepath.Base(a.copyCmd) {
	case "wl-copy":
	case "xclip":
		args = []string{"-selection", "clipboard"}
	case "xsel":
		args = []string{"--clipboard", "--input"}
	default:
		return fmt.Errorf("unknown clipboard tool: %s", a.copyCmd)
	}

	if err := a.run(ctx, a.copyCmd, args, text); err != nil {
		log.Error().Err(err).Str("tool", a.copyCmd).Msg("clipboard write failed")
		return err
	}

	log.Debug().Str("tool", a.copyCmd).Int("len", len(text)).Msg("clipboard write success")
	return nil
}

func runTool(ctx context.Context, name string, args []string, stdin string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Run()
}
