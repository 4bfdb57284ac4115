package sync

import (
	"fmt"
	"path/filepath"
	"strings"
	goSync "sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/hollisdev/scriptsync/pkg/errors"
)

// settleWindow is how long a changed file must stay quiet before it's
// synced. Editors write files in several operations, and syncing a
// half-written script would deploy garbage.
const settleWindow = 500 * time.Millisecond

// Mocked out for unit testing.
var clock clockwork.Clock = clockwork.NewRealClock()

// Watch subscribes to change events on the source tree and incrementally
// syncs each changed script. It watches exactly two levels: the source root
// itself and its immediate subdirectories. Watch only returns if the
// watcher can't be set up or its event stream closes; per-event failures
// are reported through onEach and logged, never by breaking the loop.
func (s Syncer) Watch(onEach func(Info)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WithContext(err, "create watcher")
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file watcher")
		}
	}()

	if err := watcher.Add(s.SourceRoot); err != nil {
		return errors.WithContext(err, fmt.Sprintf("watch %q", s.SourceRoot))
	}

	// fsnotify doesn't watch recursively, so each user directory is added
	// individually. Directories created later are picked up in the event
	// loop.
	entries, err := afero.ReadDir(fs, s.SourceRoot)
	if err != nil {
		return errors.WithContext(err, "read source root")
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.SourceRoot, entry.Name())
		if err := watcher.Add(path); err != nil {
			return errors.WithContext(err, fmt.Sprintf("watch %q", path))
		}
	}

	s.runWatch(watcher.Events, watcher.Errors, watcher.Add, onEach)
	return nil
}

// runWatch processes the watcher's event stream until it closes. It's
// separated from Watch so tests can feed synthetic events.
func (s Syncer) runWatch(events <-chan fsnotify.Event, watchErrors <-chan error,
	addWatch func(string) error, onEach func(Info)) {

	// pending holds the settle timer per changed path. Another event on the
	// same path before the window elapses restarts its timer.
	var mu goSync.Mutex
	pending := map[string]clockwork.Timer{}

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(event, &mu, pending, addWatch, onEach)
		case err, ok := <-watchErrors:
			if !ok {
				return
			}
			log.WithError(err).Warn("File watcher error")
		}
	}
}

func (s Syncer) handleEvent(event fsnotify.Event, mu *goSync.Mutex,
	pending map[string]clockwork.Timer, addWatch func(string) error,
	onEach func(Info)) {

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	owner, depth, ok := s.locate(event.Name)
	if !ok {
		return
	}

	// A new top-level directory is a new user directory. Start watching it
	// so its scripts trigger events too.
	if fi, err := fs.Stat(event.Name); err == nil && fi.IsDir() {
		if depth == 1 && addWatch != nil {
			if err := addWatch(event.Name); err != nil {
				log.WithError(err).WithField("path", event.Name).Warn(
					"Failed to watch new user directory")
			}
		}
		return
	}

	if !isScript(event.Name) {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	if timer, exists := pending[event.Name]; exists {
		timer.Stop()
	}

	// Stop can lose the race against a timer that already fired and whose
	// callback is blocked on the mutex. Only the currently registered timer
	// may sync; a stale callback must neither sync a path that just changed
	// again nor remove its replacement's entry.
	path := event.Name
	var timer clockwork.Timer
	timer = clock.AfterFunc(settleWindow, func() {
		mu.Lock()
		stale := pending[path] != timer
		if !stale {
			delete(pending, path)
		}
		mu.Unlock()
		if stale {
			return
		}
		s.syncChanged(path, owner, onEach)
	})
	pending[path] = timer
}

// locate classifies a path within the source tree. depth 1 is a root-level
// entry (owner is GlobalOwner), depth 2 is an entry in a user directory
// (owner is the directory name). Anything deeper, or outside the tree, is
// ignored.
func (s Syncer) locate(path string) (owner string, depth int, ok bool) {
	rel, err := filepath.Rel(s.SourceRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") || rel == "." {
		return "", 0, false
	}

	parts := strings.Split(rel, string(filepath.Separator))
	switch len(parts) {
	case 1:
		return GlobalOwner, 1, true
	case 2:
		return parts[0], 2, true
	default:
		return "", 0, false
	}
}

// syncChanged deploys a single changed script. A global change pays a full
// rescan of the user directories so that the skip map reflects overrides
// added or removed since the last event.
func (s Syncer) syncChanged(path, owner string, onEach func(Info)) {
	src := Source{Owner: owner, Name: logicalName(path), Path: path}

	var info Info
	if src.IsGlobal() {
		if !s.scriptSelected(src.Name) {
			return
		}
		info = s.syncChangedGlobal(src)
	} else {
		if !s.selected(src) {
			return
		}
		// Deploy to the owning user only, as derived from the path. The
		// full user set must not be consulted here.
		info = s.pushPrivate(src)
	}

	if info.Error != nil {
		log.WithError(info.Error).WithField("script", src.Name).Error("Sync failed")
	}
	if onEach != nil {
		onEach(info)
	}
}

func (s Syncer) syncChangedGlobal(src Source) Info {
	_, _, skip, err := scanSources(s.SourceRoot)
	if err != nil {
		return Info{Source: src, Error: errors.WithContext(err, "rebuild skip map")}
	}

	users, err := EffectiveUsers(s.DeployRoot, s.Users)
	if err != nil {
		return Info{Source: src, Error: errors.WithContext(err, "resolve users")}
	}

	return s.pushGlobal(src, users, skip)
}
