package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the artifact whenever the schema changes",
		Long: `Watch the schema file or directory and recompile on every change.

Each rebuild prints the artifact summary or the compile error; nothing
is deployed. Useful while iterating on directives.`,
		Example: `  # Watch the configured schema
  leapgraph watch

  # Watch with a longer settle time for slow editors
  leapgraph watch --debounce 1s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 0, "Delay before rebuilding after a change (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	ctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = ctx.Cfg.GetWatchConfig().Debounce()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	schemaPath := ctx.Cfg.SchemaPath
	watchDir := schemaPath
	if info, err := os.Stat(schemaPath); err != nil {
		return fmt.Errorf("cannot watch %s: %w", schemaPath, err)
	} else if !info.IsDir() {
		watchDir = filepath.Dir(schemaPath)
	}
	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", watchDir, err)
	}

	ctx.Renderer.Printf("Watching %s (debounce %s). Press Ctrl+C to stop.\n\n", schemaPath, debounce)

	rebuild := func() {
		res, err := ctx.Service.Build()
		stamp := time.Now().Format(time.TimeOnly)
		if err != nil {
			ctx.Renderer.Printf("[%s] build failed: %v\n", stamp, err)
			return
		}
		renderWarnings(ctx.Renderer, res.Warnings)
		ctx.Renderer.Printf("[%s] built %d resources (schema %s)\n",
			stamp, len(res.Artifact.Resources()), shortHash(res.Artifact.SchemaHash))
	}
	rebuild()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		var mu sync.Mutex
		var pending *time.Timer
		for {
			select {
			case <-gctx.Done():
				mu.Lock()
				if pending != nil {
					pending.Stop()
				}
				mu.Unlock()
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".graphql") {
					continue
				}
				// Collapse editor save bursts into one rebuild.
				mu.Lock()
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(debounce, rebuild)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				ctx.Renderer.Warning(fmt.Sprintf("watch error: %v", err))
			}
		}
	})

	return g.Wait()
}
