package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
	"github.com/bnema/siteshell/internal/domain/repository"
	"github.com/bnema/siteshell/internal/logging"
)

// ManageAllowlistUseCase holds the three host sets consulted by the
// security check: the built-in core set, the persisted user set and the
// session-only set. It is safe for concurrent use because engines ask for
// navigation decisions from their own goroutines.
type ManageAllowlistUseCase struct {
	repo repository.AllowlistRepository

	mu        sync.RWMutex
	permanent *entity.Allowlist
	user      *entity.Allowlist
	session   *entity.Allowlist
}

// NewManageAllowlistUseCase seeds the permanent set with the core domains
// and extra, which usually comes from configuration.
func NewManageAllowlistUseCase(repo repository.AllowlistRepository, extra ...string) *ManageAllowlistUseCase {
	permanent := entity.NewAllowlist(entity.CoreDomains...)
	for _, d := range extra {
		permanent.Add(d)
	}
	return &ManageAllowlistUseCase{
		repo:      repo,
		permanent: permanent,
		user:      entity.NewAllowlist(),
		session:   entity.NewAllowlist(),
	}
}

// Load merges the persisted domains into the permanent set. On failure the
// core set stays in effect and the error is returned for logging.
func (uc *ManageAllowlistUseCase) Load(ctx context.Context) error {
	domains, err := uc.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load allowlist: %w", err)
	}

	uc.mu.Lock()
	for _, d := range domains {
		uc.user.Add(d)
		uc.permanent.Add(d)
	}
	total := uc.permanent.Len()
	uc.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Int("stored", len(domains)).
		Int("total", total).
		Msg("allowlist loaded")
	return nil
}

// Add persists domain. It reports whether the domain was new. The domain is
// allowed in memory even if persisting fails.
func (uc *ManageAllowlistUseCase) Add(ctx context.Context, domain string) (bool, error) {
	d := entity.NormalizeDomain(domain)
	if d == "" {
		return false, fmt.Errorf("add domain %q: empty after normalization", domain)
	}

	uc.mu.Lock()
	addedUser := uc.user.Add(d)
	uc.permanent.Add(d)
	stored := uc.user.Domains()
	uc.mu.Unlock()

	if !addedUser {
		return false, nil
	}
	if err := uc.repo.Save(ctx, stored); err != nil {
		return true, fmt.Errorf("save allowlist: %w", err)
	}

	logging.FromContext(ctx).Info().Str("domain", d).Msg("domain added to allowlist")
	return true, nil
}

// AllowForSession allows host until the process exits.
func (uc *ManageAllowlistUseCase) AllowForSession(ctx context.Context, host string) bool {
	uc.mu.Lock()
	added := uc.session.Add(host)
	uc.mu.Unlock()

	if added {
		logging.FromContext(ctx).Info().Str("host", host).Msg("host allowed for this session")
	}
	return added
}

// ShouldBlock runs the security check against the current sets.
func (uc *ManageAllowlistUseCase) ShouldBlock(rawURL string) entity.Verdict {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return navigation.ShouldBlock(rawURL, uc.permanent, uc.session)
}

// Decide runs the full policy chain against the current sets.
func (uc *ManageAllowlistUseCase) Decide(req entity.NavigationRequest, oauth navigation.OAuthPolicy) navigation.Decision {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return navigation.Decide(req, uc.permanent, uc.session, oauth)
}

// Domains returns every permanently allowed domain, core included.
func (uc *ManageAllowlistUseCase) Domains() []string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.permanent.Domains()
}

// UserDomains returns the persisted user additions.
func (uc *ManageAllowlistUseCase) UserDomains() []string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.user.Domains()
}

// SessionDomains returns hosts allowed for this run only.
func (uc *ManageAllowlistUseCase) SessionDomains() []string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.session.Domains()
}
