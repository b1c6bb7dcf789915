package server

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the server definitions when files under the definitions
// directory change.
type Watcher struct {
	server  *Server
	dir     string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	once    sync.Once
	done    chan struct{}
}

// Watch starts watching the configured definitions directory and its
// subdirectories. Stop releases the watcher.
func (s *Server) Watch() (*Watcher, error) {
	dir := s.cfg.Definitions.Dir
	if dir == "" {
		return nil, fmt.Errorf("server: watch requires a definitions directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Directories are watched so editors that save atomically are noticed.
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	w := &Watcher{
		server:  s,
		dir:     dir,
		watcher: watcher,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop()

	s.logger.Info().Str("dir", dir).Msg("watching definitions for changes")
	return w, nil
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		<-w.done
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	logger := w.server.logger

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !definitionFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("definition file changed")

			if err := w.server.Reload(); err != nil {
				logger.Error().Err(err).Msg("file watch reload failed")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("file watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func definitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
