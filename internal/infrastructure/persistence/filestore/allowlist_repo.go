package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bnema/siteshell/internal/domain/repository"
	"github.com/bnema/siteshell/internal/logging"
	"github.com/natefinch/atomic"
)

type allowlistFile struct {
	Domains []string `json:"domains"`
}

type allowlistRepo struct {
	path string
}

// NewAllowlistRepository stores the user allowlist in layout.AllowlistFile().
func NewAllowlistRepository(layout Layout) repository.AllowlistRepository {
	return &allowlistRepo{path: layout.AllowlistFile()}
}

// Load returns the stored domains. A missing file is an empty list.
func (r *allowlistRepo) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.FromContext(ctx).Debug().Str("path", r.path).Msg("no allowlist file yet")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read allowlist: %w", err)
	}

	var file allowlistFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode allowlist %s: %w", r.path, err)
	}
	return file.Domains, nil
}

// Save replaces the stored list atomically.
func (r *allowlistRepo) Save(ctx context.Context, domains []string) error {
	if domains == nil {
		domains = []string{}
	}
	data, err := json.MarshalIndent(allowlistFile{Domains: domains}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode allowlist: %w", err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("write allowlist: %w", err)
	}
	logging.FromContext(ctx).Debug().Str("path", r.path).Int("domains", len(domains)).Msg("allowlist written")
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
