package questionbank

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry is one curated interview question from the bank file.
type Entry struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	MainSubject string   `json:"main_subject"`
	Difficulty  string   `json:"difficulty"`
	Categories  []string `json:"categories"`
}

// Filter narrows a bank query. Zero-value fields match everything;
// Categories requires every listed category to be present.
type Filter struct {
	Subject    string
	Difficulty string
	Categories []string
}

// Store exposes question-bank retrieval for HTTP handlers.
type Store interface {
	List(f Filter) []Entry
	Subjects() []string
	Difficulties() []string
	Categories() []string
}

// MemoryStore implements Store with an in-memory slice loaded from a
// JSON file at startup.
type MemoryStore struct {
	items []Entry
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entries.
func NewMemoryStore(items []Entry) *MemoryStore {
	return &MemoryStore{items: append([]Entry(nil), items...)}
}

// LoadFile reads a JSON array of entries from path.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("question bank: read %s: %w", path, err)
	}
	var items []Entry
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("question bank: parse %s: %w", path, err)
	}
	return NewMemoryStore(items), nil
}

// List returns the entries matching every supplied filter field.
func (s *MemoryStore) List(f Filter) []Entry {
	out := make([]Entry, 0, len(s.items))
	for _, item := range s.items {
		if f.Subject != "" && !strings.EqualFold(item.MainSubject, f.Subject) {
			continue
		}
		if f.Difficulty != "" && !strings.EqualFold(item.Difficulty, f.Difficulty) {
			continue
		}
		if !hasAll(item.Categories, f.Categories) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Subjects returns the distinct main subjects, sorted.
func (s *MemoryStore) Subjects() []string {
	return s.distinct(func(e Entry) []string { return []string{e.MainSubject} })
}

// Difficulties returns the distinct difficulty labels, sorted.
func (s *MemoryStore) Difficulties() []string {
	return s.distinct(func(e Entry) []string { return []string{e.Difficulty} })
}

// Categories returns the distinct category tags, sorted.
func (s *MemoryStore) Categories() []string {
	return s.distinct(func(e Entry) []string { return e.Categories })
}

func (s *MemoryStore) distinct(pick func(Entry) []string) []string {
	seen := make(map[string]struct{})
	for _, item := range s.items {
		for _, v := range pick(item) {
			if v == "" {
				continue
			}
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func hasAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
