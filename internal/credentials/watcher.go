package credentials

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/blinko-mcp/internal/blinko"
)

// LoadFunc reads and validates the credentials from the config file.
type LoadFunc func() (blinko.Credentials, error)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads credentials into store whenever the file at path is written,
// created or replaced, until ctx is cancelled. The parent directory is watched
// so editors that save by rename are picked up. Failed loads are logged and the
// previous credentials stay in effect.
func Watch(ctx context.Context, path string, store *Store, load LoadFunc, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("config watcher: started", slog.String("path", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadDebounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-reloadCh:
			reload(store, load, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				logger.Debug("config watcher: change detected", slog.String("op", ev.Op.String()))
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func reload(store *Store, load LoadFunc, logger *slog.Logger) {
	creds, err := load()
	if err != nil {
		logger.Warn("config watcher: reload failed, keeping previous credentials",
			slog.String("error", err.Error()))
		return
	}
	if creds == store.Credentials() {
		return
	}
	store.Set(creds)
	logger.Info("config watcher: credentials reloaded", slog.String("blinko_domain", creds.Domain))
}
