package document

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"LocalSlides/internal/state"
)

// WatchDelay is how long writes to a watched file must settle before it is
// read again
const WatchDelay = 200 * time.Millisecond

// Watch reloads the document at path whenever it changes on disk and hands
// the slides to onChange. The parent directory is watched so editors that
// save by rename are still seen. Invalid intermediate saves are logged and
// skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func([]*state.Slide)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(WatchDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			slides, err := ReadFile(abs)
			if err != nil {
				logger.Warn("Document reload failed", zap.String("path", abs), zap.Error(err))
				continue
			}
			logger.Info("Document reloaded", zap.String("path", abs), zap.Int("slides", len(slides)))
			onChange(slides)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("File watcher error", zap.Error(err))
		}
	}
}
