package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/devstack-labs/stackaudit/pkg/config"
	"github.com/devstack-labs/stackaudit/pkg/console"
	"github.com/devstack-labs/stackaudit/pkg/logger"
	"github.com/devstack-labs/stackaudit/pkg/tty"
)

var watchLog = logger.New("cli:watch")

// debounceDelay coalesces editor save bursts into a single re-validation.
const debounceDelay = 300 * time.Millisecond

// RunConfigWatch validates once, then re-validates whenever a file under
// root changes. It returns when the context is cancelled; watch mode never
// exits non-zero on validation failures, the point is the feedback loop.
func RunConfigWatch(ctx context.Context, cfg *config.Config, root string, verbose bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root, cfg.ExcludedDirs); err != nil {
		return err
	}

	runPass := func() {
		auditor := newConfigurationAuditor(cfg, root, verbose)
		report := auditor.RunAll(ctx)
		auditor.PrintSummary(report)
	}

	if tty.IsStderrTerminal() {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Watching for configuration changes, Ctrl+C to stop"))
	}
	runPass()

	var debounce *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			watchLog.Print("Watch cancelled")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			watchLog.Printf("Change detected: %s", event)
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name, cfg.ExcludedDirs)
				}
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Printf("Watcher error: %v", err)
		case <-pending:
			fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Configuration changed, re-validating"))
			runPass()
		}
	}
}

// addWatchDirs registers root and every non-excluded subdirectory, since
// fsnotify watches are not recursive.
func addWatchDirs(watcher *fsnotify.Watcher, root string, excludedDirs []string) error {
	excluded := make(map[string]bool, len(excludedDirs))
	for _, dir := range excludedDirs {
		excluded[dir] = true
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && excluded[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
