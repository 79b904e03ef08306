package server

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay batches rapid editor save events into one rebuild.
const debounceDelay = 250 * time.Millisecond

// watchedExts are the project file types that trigger a rebuild.
var watchedExts = map[string]bool{
	".csv":  true,
	".html": true,
	".css":  true,
	".md":   true,
	".yml":  true,
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// watch rebuilds the deck whenever a project file changes.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	output, _ := filepath.Abs(s.cfg.OutputDir)
	addDirs := func() {
		filepath.WalkDir(s.cfg.ProjectRoot, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || !d.IsDir() {
				return nil
			}
			abs, _ := filepath.Abs(path)
			if abs == output || strings.HasPrefix(abs, output+string(filepath.Separator)) {
				return filepath.SkipDir
			}
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != s.cfg.ProjectRoot {
				return filepath.SkipDir
			}
			watcher.Add(path)
			return nil
		})
	}
	addDirs()

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.shouldRebuild(event, output) {
					continue
				}
				// New directories need watching too.
				if event.Op.Has(fsnotify.Create) {
					addDirs()
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					if _, err := s.rebuild(ctx); err != nil {
						log.Printf("server: rebuild: %v", err)
						return
					}
					s.broadcast("reload")
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("server: watcher: %v", err)
			}
		}
	}()
	return nil
}

// shouldRebuild filters watcher events down to relevant project files
// outside the output directory.
func (s *Server) shouldRebuild(event fsnotify.Event, output string) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err == nil && (abs == output || strings.HasPrefix(abs, output+string(filepath.Separator))) {
		return false
	}
	return watchedExts[strings.ToLower(filepath.Ext(event.Name))]
}
