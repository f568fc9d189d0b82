// Package deps probes the runtime programs siteshell drives.
package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrBrowserNotFound is returned when no Chrome or Chromium binary is found.
var ErrBrowserNotFound = errors.New("no Chrome or Chromium binary found")

const versionTimeout = 5 * time.Second

// browserNames are tried in order when no explicit path is configured. The
// list mirrors what chromedp looks for on Linux.
var browserNames = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
}

// Browser describes a detected browser binary.
type Browser struct {
	Path    string
	Version string
}

// BrowserProbe finds the browser the chromium engine will launch.
type BrowserProbe struct {
	lookPath func(string) (string, error)
	output   func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewBrowserProbe creates a probe backed by PATH lookups.
func NewBrowserProbe() *BrowserProbe {
	return &BrowserProbe{
		lookPath: exec.LookPath,
		output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Find resolves execPath, or searches PATH when it is empty, and asks the
// binary for its version. A binary that does not answer still counts as
// found; Version is then empty.
func (p *BrowserProbe) Find(ctx context.Context, execPath string) (Browser, error) {
	candidates := browserNames
	if strings.TrimSpace(execPath) != "" {
		candidates = []string{execPath}
	}

	for _, name := range candidates {
		path, err := p.lookPath(name)
		if err != nil {
			continue
		}
		return Browser{Path: path, Version: p.version(ctx, path)}, nil
	}

	if len(candidates) == 1 {
		return Browser{}, fmt.Errorf("%w at %s", ErrBrowserNotFound, execPath)
	}
	return Browser{}, ErrBrowserNotFound
}

func (p *BrowserProbe) version(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := p.output(ctx, path, "--version")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
