package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SeenSet is the persisted identifier-to-last-seen mapping. It is advisory
// metadata: deals are republished every run regardless of seen status; the
// set only backs the "new since last run" flag and is size-bounded by
// evicting stale entries.
type SeenSet struct {
	entries map[string]time.Time
}

// NewSeenSet creates an empty seen-set
func NewSeenSet() *SeenSet {
	return &SeenSet{entries: make(map[string]time.Time)}
}

// LoadSeenSet reads the seen-set from path. A missing file yields an empty
// set; a corrupt file is an error so the caller can decide to start fresh.
func LoadSeenSet(path string) (*SeenSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSeenSet(), nil
		}
		return nil, fmt.Errorf("failed to read seen-set: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seen-set: %w", err)
	}

	set := NewSeenSet()
	for id, stamp := range raw {
		at, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			// Skip unreadable entries rather than discarding the file
			continue
		}
		set.entries[id] = at
	}
	return set, nil
}

// Contains reports whether the identifier was seen in a previous run
func (s *SeenSet) Contains(identifier string) bool {
	_, ok := s.entries[identifier]
	return ok
}

// Touch records the identifier as seen at the given time
func (s *SeenSet) Touch(identifier string, at time.Time) {
	s.entries[identifier] = at
}

// Evict removes entries last seen before the retention window and returns
// how many were dropped.
func (s *SeenSet) Evict(retention time.Duration, now time.Time) int {
	cutoff := now.Add(-retention)
	evicted := 0
	for id, at := range s.entries {
		if at.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked identifiers
func (s *SeenSet) Len() int {
	return len(s.entries)
}

// Encode serializes the set as a JSON identifier-to-timestamp mapping
func (s *SeenSet) Encode() ([]byte, error) {
	raw := make(map[string]string, len(s.entries))
	for id, at := range s.entries {
		raw[id] = at.UTC().Format(time.RFC3339)
	}
	return json.MarshalIndent(raw, "", "  ")
}
