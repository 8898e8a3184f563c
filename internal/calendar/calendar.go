package calendar

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Type identifies a calendar system for date formatting and parsing.
// All formatting and parsing within one computation must use the same type.
type Type string

const (
	// Gregorian is the default and mandatory calendar system.
	Gregorian Type = "gregorian"
)

// Adapter converts between the wire representation of a date (DD/MM/YY in the
// active calendar) and time.Time. Parse fails softly: it returns ok=false on
// unparsable input and never panics.
type Adapter interface {
	Name() Type
	Parse(s string) (time.Time, bool)
	Format(t time.Time) string
}

var (
	registryMu sync.RWMutex
	registry   = map[Type]Adapter{
		Gregorian: gregorianAdapter{},
	}
)

// Register makes an adapter available under its own name. Registering a second
// adapter with the same name replaces the first.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[a.Name()] = a
}

// ForType returns the adapter registered for the given calendar type.
func ForType(t Type) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if a, ok := registry[t]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("calendar: no adapter registered for type %q", t)
}

// Default returns the Gregorian adapter.
func Default() Adapter {
	a, _ := ForType(Gregorian)
	return a
}

const (
	displayLayout = "02/01/06"
	isoLayout     = "2006-01-02"
)

type gregorianAdapter struct{}

func (gregorianAdapter) Name() Type { return Gregorian }

func (gregorianAdapter) Parse(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(displayLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (gregorianAdapter) Format(t time.Time) string {
	return t.Format(displayLayout)
}

// ParseISO parses a raw input date in yyyy-mm-dd form, the format produced by
// date form fields and used by holiday data.
func ParseISO(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(isoLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
