package holidays

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Set maps a year to the exchange holidays falling in it, keyed by ISO
// yyyy-mm-dd date. The settlement engine only reads from it; the loader
// refreshes it as holiday data arrives, so reads and merges are guarded
// by a RWMutex. A missing year means zero holidays for that year.
type Set struct {
	mu    sync.RWMutex
	years map[int]map[string]struct{}
}

// NewSet returns an empty holiday set.
func NewSet() *Set {
	return &Set{years: make(map[int]map[string]struct{})}
}

// Contains reports whether t falls on a listed holiday.
func (s *Set) Contains(t time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dates, ok := s.years[t.Year()]
	if !ok {
		return false
	}
	_, ok = dates[t.Format("2006-01-02")]
	return ok
}

// Add merges ISO dates into the set, filing each under the year encoded in the
// date itself. Merging is idempotent; malformed dates are skipped. It returns
// the number of dates that were actually new.
func (s *Set) Add(dates ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, d := range dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			continue
		}
		year, err := strconv.Atoi(d[:4])
		if err != nil {
			continue
		}
		if s.years[year] == nil {
			s.years[year] = make(map[string]struct{})
		}
		if _, ok := s.years[year][d]; !ok {
			s.years[year][d] = struct{}{}
			added++
		}
	}
	return added
}

// Dates returns the sorted holidays recorded for a year.
func (s *Set) Dates(year int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.years[year]))
	for d := range s.years[year] {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Years returns the years with at least one recorded holiday, ascending.
func (s *Set) Years() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.years))
	for y := range s.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Len returns the total number of recorded holidays.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, dates := range s.years {
		n += len(dates)
	}
	return n
}

// Decode reads the bundled holiday format: an object keyed by 4-digit year
// (string or numeric keys) holding arrays of ISO dates.
func Decode(r io.Reader) (*Set, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("holidays: decode: %w", err)
	}
	s := NewSet()
	for year, dates := range raw {
		if _, err := strconv.Atoi(year); err != nil {
			return nil, fmt.Errorf("holidays: invalid year key %q", year)
		}
		s.Add(dates...)
	}
	return s, nil
}

// LoadFile decodes a holiday JSON file from disk.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("holidays: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
