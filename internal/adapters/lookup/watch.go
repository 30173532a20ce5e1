package lookup

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/flipper/pkg/logger"
)

// Watch reloads the tables at path into t whenever the file is written or
// recreated, calling onReload after each successful swap. A file that fails
// to parse is logged and the previous tables stay in place. Watch blocks
// until ctx is cancelled.
func Watch(ctx context.Context, path string, t *Tables, log logger.Logger, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	log.Info(ctx, "watching lookup tables", logger.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			next, err := Load(path)
			if err != nil {
				log.Error(ctx, "lookup reload failed, keeping previous tables",
					logger.String("path", path), logger.Error(err))
				continue
			}
			t.Replace(next)
			log.Info(ctx, "lookup tables reloaded", logger.String("path", path))
			if onReload != nil {
				onReload()
			}

			// atomic saves replace the inode
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(ctx, "lookup watcher error", logger.Error(err))
		}
	}
}
