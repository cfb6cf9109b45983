package core

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"linemod/internal/state"
)

// StateStore abstracts state persistence for testability.
type StateStore interface {
	Load() ([]state.FileState, error)
	Save([]state.FileState) error
}

// FileStateStore implements StateStore using a JSON file.
type FileStateStore struct {
	File string
}

func NewFileStateStore(file string) *FileStateStore {
	return &FileStateStore{File: file}
}

// Load returns the recorded states. A missing or empty file holds no state.
func (fs *FileStateStore) Load() ([]state.FileState, error) {
	var states []state.FileState
	f, err := os.Open(fs.File)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&states); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return states, nil
}

func (fs *FileStateStore) Save(states []state.FileState) error {
	if err := os.MkdirAll(filepath.Dir(fs.File), 0755); err != nil {
		return err
	}
	f, err := os.Create(fs.File)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(states)
}

// InMemoryStateStore implements StateStore for testing (no disk I/O).
type InMemoryStateStore struct {
	mu     sync.Mutex
	states []state.FileState
	saves  int
}

func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{}
}

func (ms *InMemoryStateStore) Load() ([]state.FileState, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	// Return a copy to avoid mutation
	return slices.Clone(ms.states), nil
}

func (ms *InMemoryStateStore) Save(states []state.FileState) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	// Store a copy to avoid mutation
	ms.states = slices.Clone(states)
	ms.saves++
	return nil
}

// Saves returns how many times Save was called.
func (ms *InMemoryStateStore) Saves() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.saves
}
