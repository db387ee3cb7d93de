// Package store is the local persistence boundary: the whole scene is
// written as one JSON value under one key, saved on a debounced timer and
// read back once at startup. Selection and history are never persisted.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"OpenSketch/internal/scene"
)

// SceneKey is the single key the live document is stored under.
const SceneKey = "current"

// SaveDebounce delays a save until edits go quiet, coalescing bursts.
const SaveDebounce = 500 * time.Millisecond

// FileStore keeps one JSON file per key inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Save writes the scene under the key. The write goes through a temp
// file and rename so a crash mid-write never corrupts the stored scene.
func (f *FileStore) Save(key string, sc scene.Scene) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

// Load reads the scene stored under the key. ok is false when nothing is
// stored yet.
func (f *FileStore) Load(key string) (sc scene.Scene, ok bool, err error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return scene.Scene{}, false, nil
	}
	if err != nil {
		return scene.Scene{}, false, err
	}
	if err := json.Unmarshal(data, &sc); err != nil {
		return scene.Scene{}, false, fmt.Errorf("parse stored scene: %w", err)
	}
	return sc.Normalize(), true, nil
}

// Delete removes the value under the key. A missing key is a no-op.
func (f *FileStore) Delete(key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Saver debounces scene saves: any number of Queue calls within the
// window collapse to one write of the newest scene.
type Saver struct {
	mu      sync.Mutex
	store   *FileStore
	key     string
	timer   *time.Timer
	pending *scene.Scene
	stopped bool
}

// NewSaver writes queued scenes to the store under the key.
func NewSaver(store *FileStore, key string) *Saver {
	return &Saver{store: store, key: key}
}

// Queue schedules a save of the given scene, replacing any pending one.
func (s *Saver) Queue(sc scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	queued := sc.Clone()
	s.pending = &queued
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(SaveDebounce, s.flush)
}

func (s *Saver) flush() {
	s.mu.Lock()
	sc := s.pending
	s.pending = nil
	s.mu.Unlock()
	if sc == nil {
		return
	}
	if err := s.store.Save(s.key, *sc); err != nil {
		// Persistence failures must never disturb the live document.
		log.Printf("[STORE] scene save failed: %v", err)
	}
}

// Stop writes any pending scene immediately and disables further queues.
func (s *Saver) Stop() {
	s.mu.Lock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.flush()
}
