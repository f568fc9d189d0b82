// Package cli wires the configuration, storage and logging shared by every
// siteshell command.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/siteshell/internal/app/shell"
	"github.com/bnema/siteshell/internal/application/port"
	"github.com/bnema/siteshell/internal/application/usecase"
	"github.com/bnema/siteshell/internal/cli/styles"
	"github.com/bnema/siteshell/internal/domain/build"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/navigation"
	"github.com/bnema/siteshell/internal/infrastructure/chromium"
	"github.com/bnema/siteshell/internal/infrastructure/config"
	"github.com/bnema/siteshell/internal/infrastructure/engine/stub"
	"github.com/bnema/siteshell/internal/infrastructure/persistence/filestore"
	"github.com/bnema/siteshell/internal/infrastructure/snapshot"
	"github.com/bnema/siteshell/internal/infrastructure/xdg"
	"github.com/bnema/siteshell/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info
	Layout    filestore.Layout

	// Use cases
	Sessions  *usecase.ManageSessionUseCase
	Allowlist *usecase.ManageAllowlistUseCase

	// Context with logger
	ctx     context.Context
	logSink *logging.FileSink
}

// NewApp loads the configuration and creates the stores it points at.
func NewApp() (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	return newApp(mgr)
}

func newApp(mgr *config.Manager) (*App, error) {
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	app := &App{
		Config:  cfg,
		Manager: mgr,
		Theme:   styles.NewTheme(),
	}
	if err := app.initLogger(cfg.Logging.File); err != nil {
		return nil, err
	}
	log := logging.FromContext(app.ctx)
	if mgr.Created() {
		log.Info().Str("path", mgr.ConfigFile()).Msg("created default config")
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	app.Layout = filestore.NewLayout(dataDir)
	if err := app.Layout.Ensure(); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	log.Debug().Str("data_dir", dataDir).Msg("data directory ready")

	sessionRepo := filestore.NewSessionRepository(app.Layout)
	allowlistRepo := filestore.NewAllowlistRepository(app.Layout)

	app.Sessions = usecase.NewManageSessionUseCase(sessionRepo, cfg.Site.DefaultURL)
	app.Allowlist = usecase.NewManageAllowlistUseCase(allowlistRepo, cfg.Security.ExtraDomains...)
	return app, nil
}

// initLogger builds the logger. With toFile the rotating log file replaces
// stderr.
func (a *App) initLogger(toFile bool) error {
	cfg := a.Config.Logging
	var out io.Writer
	if toFile {
		dir, err := xdg.LogDir()
		if err != nil {
			return fmt.Errorf("resolve log dir: %w", err)
		}
		sink, err := logging.OpenFileSink(dir, cfg.MaxSizeMB, cfg.MaxBackups)
		if err != nil {
			return err
		}
		if a.logSink != nil {
			_ = a.logSink.Close()
		}
		a.logSink = sink
		out = sink
	}

	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(cfg.Level),
		Format:     cfg.Format,
		TimeFormat: "15:04:05",
		Output:     out,
	})
	a.ctx = logging.WithContext(context.Background(), logger)
	return nil
}

// UseFileLog moves logging to the log file. The terminal UI calls it before
// taking over the screen.
func (a *App) UseFileLog() error {
	if a.logSink != nil {
		return nil
	}
	return a.initLogger(true)
}

// LogFile returns the active log file, or "" when logging to stderr.
func (a *App) LogFile() string {
	if a.logSink == nil {
		return ""
	}
	return a.logSink.Path()
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logSink != nil {
		return a.logSink.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// NewEngine creates the rendering engine selected by engine.kind.
func (a *App) NewEngine(ctx context.Context) port.Engine {
	cfg := a.Config.Engine
	if cfg.Kind == config.EngineStub {
		return stub.New()
	}
	return chromium.New(ctx, chromium.Config{
		ExecPath: cfg.ExecPath,
		Headless: cfg.Headless,
		Flags:    cfg.Flags,
	})
}

// ShellDeps returns the shell collaborators backed by the app's stores.
func (a *App) ShellDeps(engine port.Engine, scheduler port.Scheduler) shell.Deps {
	return shell.Deps{
		Engine:     engine,
		Scheduler:  scheduler,
		Sessions:   a.Sessions,
		Allowlist:  a.Allowlist,
		ProfileDir: a.Layout.ProfileDir,
	}
}

// ShellOptions maps the configuration onto shell options.
func ShellOptions(cfg *config.Config) shell.Options {
	return shell.Options{
		DefaultURL: cfg.Site.DefaultURL,
		Tabs: usecase.TabLimits{
			MaxTabs:   cfg.Tabs.MaxTabs,
			MaxClosed: cfg.Tabs.MaxClosed,
		},
		Memory: usecase.MemoryConfig{
			Enabled:       cfg.Memory.Enabled,
			CheckInterval: cfg.Memory.CheckInterval(),
			IdleThreshold: cfg.Memory.IdleThreshold(),
		},
		Snapshot: snapshot.Config{
			AutosaveInterval: cfg.Session.AutosaveInterval(),
			NoteDebounce:     cfg.Session.NoteDebounce(),
			ChangeDebounce:   cfg.Session.ChangeDebounce(),
		},
		OAuth: OAuthPolicy(cfg),
	}
}

// OAuthPolicy builds the login-flow policy from the oauth section.
func OAuthPolicy(cfg *config.Config) navigation.OAuthPolicy {
	policy := navigation.DefaultOAuthPolicy()
	if cfg.OAuth.Mode == config.OAuthModeExternal {
		policy.Mode = entity.OAuthModeExternal
	}
	if len(cfg.OAuth.Providers) > 0 {
		policy.Providers = cfg.OAuth.Providers
	}
	return policy
}
