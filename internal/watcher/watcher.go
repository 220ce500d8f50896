// Package watcher reports debounced changes to project files.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/pagesmith/internal/logging"
)

// FileWatcher watches directories and hands batches of changes to handlers.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a file should be watched
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of changes.
type ChangeHandler func(ctx context.Context, events []ChangeEvent) error

// Debouncer groups rapid file changes together
type Debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	mutex   sync.Mutex
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	debouncer := &Debouncer{
		delay:   debounceDelay,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: debouncer,
		filters:   make([]FileFilter, 0),
		handlers:  make([]ChangeHandler, 0),
		logger:    logger.WithComponent("watcher"),
	}

	return fw, nil
}

// AddFilter adds a file filter
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath watches a directory, or the directory holding a file. Editors often
// replace files by renaming, so files are watched through their parent.
func (fw *FileWatcher) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}
	return fw.watcher.Add(filepath.Clean(path))
}

// Start runs the watcher until ctx is cancelled or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) error {
	ctx, fw.cancel = context.WithCancel(ctx)

	fw.wg.Add(3)
	go func() {
		defer fw.wg.Done()
		fw.debouncer.start(ctx)
	}()
	go func() {
		defer fw.wg.Done()
		fw.processEvents(ctx)
	}()
	go func() {
		defer fw.wg.Done()
		fw.watchLoop(ctx)
	}()

	return nil
}

// Stop stops the watcher and waits for its goroutines.
func (fw *FileWatcher) Stop() error {
	if fw.cancel != nil {
		fw.cancel()
	}
	fw.debouncer.stop()

	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	fw.mutex.RLock()
	filters := fw.filters
	fw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var modTime time.Time
	var size int64
	if info, err := os.Stat(event.Name); err == nil {
		modTime = info.ModTime()
		size = info.Size()
	}

	var eventType EventType
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventTypeCreated
	case event.Op&fsnotify.Write == fsnotify.Write:
		eventType = EventTypeModified
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		eventType = EventTypeDeleted
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		eventType = EventTypeRenamed
	default:
		eventType = EventTypeModified
	}

	fw.debouncer.push(ChangeEvent{
		Type:    eventType,
		Path:    event.Name,
		ModTime: modTime,
		Size:    size,
	})
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.output:
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(ctx, events); err != nil {
					fw.logger.Error(ctx, err, "File watcher handler failed", "changes", len(events))
				}
			}
		}
	}
}

// push queues an event, dropping it when the queue is full.
func (d *Debouncer) push(event ChangeEvent) {
	select {
	case d.events <- event:
	default:
	}
}

func (d *Debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	// Last event per path wins.
	latest := make(map[string]ChangeEvent)
	for _, event := range d.pending {
		latest[event.Path] = event
	}

	events := make([]ChangeEvent, 0, len(latest))
	for _, event := range latest {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	select {
	case d.output <- events:
	default:
	}

	d.pending = d.pending[:0]
}

// PathSet is a replaceable set of watched files. Its Match method is a
// FileFilter.
type PathSet struct {
	mutex sync.RWMutex
	paths map[string]struct{}
}

// NewPathSet creates a set holding paths.
func NewPathSet(paths ...string) *PathSet {
	ps := &PathSet{}
	ps.Set(paths...)
	return ps
}

// Set replaces the contents of the set.
func (ps *PathSet) Set(paths ...string) {
	want := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		want[absClean(p)] = struct{}{}
	}
	ps.mutex.Lock()
	ps.paths = want
	ps.mutex.Unlock()
}

// Match accepts only paths in the set.
func (ps *PathSet) Match(path string) bool {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()
	_, ok := ps.paths[absClean(path)]
	return ok
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// NoEditorTempFilter rejects swap and backup files editors write next to the
// files being edited.
func NoEditorTempFilter(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".#") &&
		!strings.HasSuffix(base, "~") &&
		!strings.HasSuffix(base, ".swp") &&
		!strings.HasSuffix(base, ".swx")
}

// NoGitFilter rejects anything under a .git directory.
func NoGitFilter(path string) bool {
	return !strings.HasPrefix(path, ".git/") && !strings.Contains(path, "/.git/")
}
