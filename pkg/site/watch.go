package site

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *zap.Logger
	debounce time.Duration
}

// WithWatchLogger sets the logger for reload events.
func WithWatchLogger(logger *zap.Logger) WatchOption {
	return func(cfg *watchConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDebounce collapses bursts of writes into one reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(cfg *watchConfig) {
		if d > 0 {
			cfg.debounce = d
		}
	}
}

// Watch reloads path whenever it changes and passes each successfully parsed
// config to onChange. Invalid files are logged and skipped. The parent
// directory is watched so editors that replace the file are picked up. Watch
// blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config), opts ...WatchOption) error {
	cfg := watchConfig{logger: zap.NewNop(), debounce: defaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("site: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("site: watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("site: watch %s: %w", filepath.Dir(target), err)
	}
	cfg.logger.Info("watching site config", zap.String("path", target))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				timer.Reset(cfg.debounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.logger.Warn("site config watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			next, err := Load(target)
			if err != nil {
				cfg.logger.Warn("site config reload failed", zap.Error(err))
				continue
			}
			cfg.logger.Info("site config reloaded", zap.String("path", target))
			onChange(next)
		}
	}
}
