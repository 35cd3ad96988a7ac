package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/remsync/internal/adapters/driven/config/tomlprofile"
	confirmterminal "github.com/custodia-labs/remsync/internal/adapters/driven/confirm/terminal"
	statusterminal "github.com/custodia-labs/remsync/internal/adapters/driven/status/terminal"
	"github.com/custodia-labs/remsync/internal/adapters/driven/watch"
	"github.com/custodia-labs/remsync/internal/adapters/driving/editorapi"
	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
	"github.com/custodia-labs/remsync/internal/core/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch [roots...]",
	Short: "Watch workspace roots and sync on open/save",
	Long: `Watches the given workspace roots (default: the current directory)
and synchronises files against their remote connections. Profiles are
loaded from .remsync.toml files and reloaded whenever one is saved.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	roots := args
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		roots = []string{cwd}
	}

	workspaces, err := domain.NewWorkspaceSet(roots...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cache, err := buildCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	var events driven.EventSource
	var editorSrv *editorapi.Server
	if flagListen != "" {
		editorSrv = editorapi.NewServer(flagListen)
		if err := editorSrv.Start(); err != nil {
			return err
		}
		defer editorSrv.Stop()
		events = editorSrv
	}

	coordinator := services.NewCoordinator(
		workspaces,
		events,
		watch.NewFactory(),
		tomlprofile.NewParser(),
		services.NewServiceRegistry(),
		buildTransfer(ctx, cache),
		cache,
		statusterminal.NewReporter(),
		confirmterminal.NewConfirmer(),
	)

	if err := coordinator.Init(ctx); err != nil {
		return fmt.Errorf("initialise coordinator: %w", err)
	}
	defer coordinator.Teardown()

	if err := coordinator.Bootstrap(ctx); err != nil {
		return fmt.Errorf("load workspace profiles: %w", err)
	}

	cmd.Printf("Watching %d workspace root(s). Press Ctrl-C to stop.\n", len(roots))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	// Unblock pending prompts and transfers before the deferred
	// Teardown waits on them.
	cancel()

	cmd.Println("Shutting down.")
	return nil
}
