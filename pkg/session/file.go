package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileStorage persists credentials to a single JSON file. Writes go through a
// temp file plus rename so a crash never leaves a torn credential file.
type FileStorage struct {
	mu   sync.Mutex
	path string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileStorage creates a file-backed storage at path. The parent directory
// is created if needed; a missing file reads as an empty store.
func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}
	return &FileStorage{path: path}, nil
}

// Get returns the stored value for key
func (f *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set stores value under key
func (f *FileStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

// Delete removes key; deleting an absent key is not an error
func (f *FileStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

// Watch invokes onChange whenever another process rewrites the credential
// file, so a login or logout performed by a sibling tool is picked up without
// a restart. Returns a stop function.
func (f *FileStorage) Watch(onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: atomic renames replace the file inode, so watching
	// the file itself would go silent after the first update.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch credential directory: %w", err)
	}

	f.watcher = watcher
	f.done = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != f.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					onChange()
				}
			case <-watcher.Errors:
			case <-f.done:
				return
			}
		}
	}()

	stop := func() {
		close(f.done)
		watcher.Close()
	}
	return stop, nil
}

// Close stops the watcher if one is running
func (f *FileStorage) Close() error {
	if f.watcher != nil {
		select {
		case <-f.done:
		default:
			close(f.done)
		}
		return f.watcher.Close()
	}
	return nil
}

func (f *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return values, nil
}

func (f *FileStorage) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
