package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	tt "github.com/liskovlint/liskov/internal/types"
)

// Watcher re-lints python files as they change.
type Watcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	// read by the watch loop goroutine, written by Start/Stop
	isWatching atomic.Bool
	onIssues   func(filename string, issues []tt.Issue)
}

// NewWatcher wraps an engine with a file watcher. onIssues receives the
// result of every re-lint; when nil, issues are logged.
func NewWatcher(engine *Engine, onIssues func(string, []tt.Issue)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if onIssues == nil {
		onIssues = logIssues
	}
	return &Watcher{engine: engine, watcher: fw, onIssues: onIssues}, nil
}

// Start watches the given directories recursively.
func (w *Watcher) Start(dirs []string) error {
	if w.isWatching.Load() {
		return fmt.Errorf("already watching")
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.isWatching.Store(true)
	go w.watchLoop()
	return nil
}

// Stop ends the watch loop and closes the underlying watcher.
func (w *Watcher) Stop() error {
	if !w.isWatching.Load() {
		log.Println("not watching")
	}
	w.isWatching.Store(false)
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for w.isWatching.Load() {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("error: %v", err)
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !strings.HasSuffix(event.Name, ".py") {
		return
	}
	// wait for a while after file change to consider multiple changes as one
	time.Sleep(100 * time.Millisecond)
	issues, err := w.engine.Run(event.Name)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	w.onIssues(event.Name, issues)
}

func logIssues(filename string, issues []tt.Issue) {
	if len(issues) == 0 {
		log.Printf("%s: no issues", filename)
		return
	}
	for _, issue := range issues {
		log.Printf("%s:%d: %s: %s", issue.Filename, issue.Start.Line, issue.Rule, issue.Message)
	}
}
