package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/app/mainloop"
	"github.com/bnema/siteshell/internal/app/shell"
	"github.com/bnema/siteshell/internal/cli"
	"github.com/bnema/siteshell/internal/cli/model"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/url"
	"github.com/bnema/siteshell/internal/infrastructure/clipboard"
	"github.com/bnema/siteshell/internal/infrastructure/config"
	"github.com/bnema/siteshell/internal/infrastructure/desktop"
	"github.com/bnema/siteshell/internal/infrastructure/persistence/filestore"
	"github.com/bnema/siteshell/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var runCmd = &cobra.Command{
	Use:   "run [url]",
	Short: "Start the shell",
	Long: `Start the shell. This is what 'siteshell' does without a subcommand;
an optional URL opens in a new tab of the first workspace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// loopRunner executes model commands on the event loop.
type loopRunner struct {
	ctx   context.Context
	loop  *mainloop.Loop
	shell *shell.Shell
}

func (r *loopRunner) Exec(fn func(s *shell.Shell) error) (shell.View, error) {
	var (
		view   shell.View
		cmdErr error
	)
	err := r.loop.Invoke(r.ctx, func() {
		if fn != nil {
			cmdErr = fn(r.shell)
		}
		view = r.shell.State()
	})
	if err != nil {
		return shell.View{}, err
	}
	return view, cmdErr
}

// asyncSender keeps loop listeners from blocking on the program, which only
// reads messages while it runs.
type asyncSender struct {
	program *tea.Program
}

func (s asyncSender) Send(msg tea.Msg) {
	go s.program.Send(msg)
}

func runShell(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	// the terminal belongs to the UI from here on
	if err := app.UseFileLog(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(logging.WithComponent(app.Ctx(), "run"), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	if app.Config.Session.BackupOnStartup {
		if _, err := app.Sessions.Backup(ctx); err != nil && !errors.Is(err, filestore.ErrNoSessionFile) {
			log.Warn().Err(err).Msg("session backup failed")
		}
	}

	loop := mainloop.New()
	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(loopCtx) }()
	defer func() {
		stopLoop()
		<-loopDone
		loop.Drain()
		loop.Stop()
	}()

	engine := app.NewEngine(ctx)
	sh := shell.New(ctx, app.ShellDeps(engine, loop), cli.ShellOptions(app.Config))

	var startErr error
	if err := loop.Invoke(ctx, func() { startErr = sh.Start(ctx) }); err != nil {
		return err
	}
	if startErr != nil {
		_ = engine.Close(context.WithoutCancel(ctx))
		return fmt.Errorf("start shell: %w", startErr)
	}
	log.Info().Str("site", app.Config.Site.DefaultURL).Msg("shell started")

	if len(args) == 1 {
		target := url.Normalize(args[0])
		_ = loop.Invoke(ctx, func() {
			if _, err := sh.NewTab(ctx, target); err != nil {
				log.Warn().Err(err).Str("url", target).Msg("failed to open initial url")
			}
		})
	}

	runner := &loopRunner{ctx: ctx, loop: loop, shell: sh}
	program := tea.NewProgram(
		model.NewShellModel(ctx, app.Theme, runner).WithClipboard(clipboard.New()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	presenter := model.NewPresenter(asyncSender{program: program})
	sh.Guard().SetPresenter(presenter)
	sh.Guard().SetOpener(desktop.NewOpener())

	_ = loop.Invoke(ctx, func() {
		sh.Dispatcher().OnAny(func(entity.Event) { presenter.Refresh() })
	})

	app.Manager.OnConfigChange(func(cfg *config.Config) {
		opts := cli.ShellOptions(cfg)
		loop.Post(func() {
			sh.ApplyOptions(ctx, opts)
			log.Info().Msg("configuration reloaded")
		})
	})
	if err := app.Manager.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watching disabled")
	}

	_, runErr := program.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	var shutdownErr error
	if err := loop.Invoke(shutdownCtx, func() { shutdownErr = sh.Shutdown(shutdownCtx) }); err != nil {
		shutdownErr = err
	}
	if shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("shutdown incomplete")
	} else {
		log.Info().Msg("shell stopped")
	}

	return errors.Join(runErr, shutdownErr)
}
