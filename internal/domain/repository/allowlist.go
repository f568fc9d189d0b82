package repository

import "context"

// AllowlistRepository persists the user-approved domains.
type AllowlistRepository interface {
	// Load returns the stored domains. A missing store yields no domains
	// and no error.
	Load(ctx context.Context) ([]string, error)

	// Save replaces the stored domains.
	Save(ctx context.Context, domains []string) error
}
