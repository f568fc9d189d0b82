// Package desktop hands URLs over to the user's default browser.
package desktop

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cli/browser"

	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/domain/url"
	"github.com/bnema/siteshell/internal/logging"
)

// Opener implements port.ExternalOpener with the platform's URL handler
// (xdg-open on Linux).
type Opener struct {
	open func(string) error
}

var _ port.ExternalOpener = (*Opener)(nil)

// NewOpener creates an opener. The helper's own output is discarded so it
// cannot draw over the terminal UI.
func NewOpener() *Opener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Opener{open: browser.OpenURL}
}

// OpenURL opens rawURL in the system browser. Only http and https URLs are
// handed over.
func (o *Opener) OpenURL(ctx context.Context, rawURL string) error {
	scheme := strings.ToLower(url.Scheme(rawURL))
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("open %q externally: unsupported scheme %q", rawURL, scheme)
	}
	if err := o.open(rawURL); err != nil {
		return fmt.Errorf("open %q externally: %w", rawURL, err)
	}
	logging.FromContext(ctx).Info().Str("url", rawURL).Msg("opened in system browser")
	return nil
}
