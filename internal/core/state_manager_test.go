package core

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"linemod/internal/state"
)

func sampleStates() []state.FileState {
	now := time.Now().UTC().Truncate(time.Second)
	return []state.FileState{
		{Path: "lib/a.dart", ContentHash: "hash1", RuleFingerprint: "fp", Patches: 2, UpdatedAt: now},
		{Path: "lib/b.dart", ContentHash: "hash2", RuleFingerprint: "fp", UpdatedAt: now},
	}
}

func TestInMemoryStateStore_Basic(t *testing.T) {
	store := NewInMemoryStateStore()
	states := sampleStates()

	// Save and Load
	if err := store.Save(states); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(states, loaded) {
		t.Errorf("Loaded state does not match saved state.\nGot:  %+v\nWant: %+v", loaded, states)
	}

	loaded[0].Patches = 99
	again, _ := store.Load()
	if again[0].Patches != 2 {
		t.Error("Load returned a slice aliasing the stored state")
	}
	if store.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", store.Saves())
	}
}

func TestFileStateStore_Basic(t *testing.T) {
	tmpDir := t.TempDir()
	stateFile := filepath.Join(tmpDir, "cache", "state.json")
	store := NewFileStateStore(stateFile)

	// Missing file holds no state
	empty, err := store.Load()
	if err != nil || len(empty) != 0 {
		t.Fatalf("Load of missing file = %v, %v", empty, err)
	}

	states := sampleStates()
	if err := store.Save(states); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(states, loaded) {
		t.Errorf("Loaded state does not match saved state.\nGot:  %+v\nWant: %+v", loaded, states)
	}

	remaining := state.Remove(loaded, "lib/b.dart")
	if err := store.Save(remaining); err != nil {
		t.Fatalf("Save after removal failed: %v", err)
	}
	loaded2, err := store.Load()
	if err != nil {
		t.Fatalf("Load after removal failed: %v", err)
	}
	if !reflect.DeepEqual(remaining, loaded2) {
		t.Errorf("Loaded state after removal does not match.\nGot:  %+v\nWant: %+v", loaded2, remaining)
	}

	// File should exist
	if _, err := os.Stat(stateFile); err != nil {
		t.Errorf("Expected state file to exist, but got error: %v", err)
	}
}

func TestFileStateStore_EmptyFile(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(stateFile, nil, 0644); err != nil {
		t.Fatal(err)
	}
	states, err := NewFileStateStore(stateFile).Load()
	if err != nil || states != nil {
		t.Errorf("Load of empty file = %v, %v", states, err)
	}
}
