// Package watcher monitors a folder and hands newly created video files to
// a handler, one at a time.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/scenesnap/scenesnap/internal/fsutil"
)

// settleDelay gives the writer a moment to finish the file before the
// pipeline opens it.
const settleDelay = 2 * time.Second

// Handler processes one video file.
type Handler func(ctx context.Context, videoPath string) error

type Watcher struct {
	dir string
	fw  *fsnotify.Watcher
	log *zap.Logger
}

func New(dir string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{dir: dir, fw: fw, log: log}, nil
}

// Run blocks until the context is cancelled, invoking handle for each video
// file created in the watched folder. Videos are processed sequentially;
// handler failures are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	w.log.Info("watching folder for new videos", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !fsutil.IsVideoFile(event.Name) {
				w.log.Debug("ignoring non-video file", zap.String("file", event.Name))
				continue
			}
			w.log.Info("new video detected", zap.String("file", filepath.Base(event.Name)))

			select {
			case <-time.After(settleDelay):
			case <-ctx.Done():
				return ctx.Err()
			}

			if err := handle(ctx, event.Name); err != nil {
				w.log.Error("video failed",
					zap.String("file", filepath.Base(event.Name)),
					zap.Error(err),
				)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error("watcher error", zap.Error(err))
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
