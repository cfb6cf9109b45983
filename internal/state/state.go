package state

import (
	"sort"
	"time"
)

// FileState records the last run over one file. It is persisted between runs
// so incremental mode can skip files that have not changed since.
type FileState struct {
	Path            string    `json:"path"`
	ContentHash     string    `json:"content_hash"`     // sha256 of the content after the run
	RuleFingerprint string    `json:"rule_fingerprint"` // identity of the rules that ran
	Patches         int       `json:"patches"`          // patches applied by the run
	UpdatedAt       time.Time `json:"updated_at"`
}

// Current reports whether the file was last processed with the same content
// and rules.
func (s FileState) Current(contentHash, fingerprint string) bool {
	return s.ContentHash == contentHash && s.RuleFingerprint == fingerprint
}

// Find returns the state recorded for path.
func Find(states []FileState, path string) (FileState, bool) {
	for _, s := range states {
		if s.Path == path {
			return s, true
		}
	}
	return FileState{}, false
}

// Upsert replaces the record for s.Path, or adds it. The result is sorted by path.
func Upsert(states []FileState, s FileState) []FileState {
	out := Remove(states, s.Path)
	out = append(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Remove drops the record for path.
func Remove(states []FileState, path string) []FileState {
	var out []FileState
	for _, s := range states {
		if s.Path != path {
			out = append(out, s)
		}
	}
	return out
}
