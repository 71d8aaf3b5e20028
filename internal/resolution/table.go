package resolution

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// MaxZoom is the deepest zoom level a table can hold
const MaxZoom = 30

// earth circumference / 256 pixel, resolution of zoom 0 in meters per pixel
const initialResolution = 2 * math.Pi * 6378137 / 256

var (
	ErrInvalidWindow = errors.New("invalid zoom window")
	ErrEmptyTable    = errors.New("empty resolution table")
)

type Entry struct {
	Zoom       int     `json:"zoom"`
	Resolution float64 `json:"resolution"`
}

// Snapshot is one immutable version of the resolution table, entries ordered by zoom
type Snapshot struct {
	Version uint64  `json:"version"`
	Entries []Entry `json:"entries"`
}

func (s *Snapshot) First() Entry {
	return s.Entries[0]
}

func (s *Snapshot) Last() Entry {
	return s.Entries[len(s.Entries)-1]
}

// Contains checks if the zoom is part of the visible window
func (s *Snapshot) Contains(zoom int) bool {
	if s == nil || len(s.Entries) == 0 {
		return false
	}
	return zoom >= s.First().Zoom && zoom <= s.Last().Zoom
}

// Resolution returns the resolution of the zoom level
func (s *Snapshot) Resolution(zoom int) (float64, bool) {
	if !s.Contains(zoom) {
		return 0, false
	}
	return s.Entries[zoom-s.First().Zoom].Resolution, true
}

// Table holds the actual snapshot, readers never block, updates are serialized
type Table struct {
	tileSize int
	wlock    sync.Mutex
	current  atomic.Pointer[Snapshot]
}

// New creates a table for the visible window min..max
func New(tileSize, minVisible, maxVisible int) (*Table, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %d", ErrInvalidWindow, tileSize)
	}
	t := &Table{tileSize: tileSize}
	if _, err := t.SetWindow(minVisible, maxVisible); err != nil {
		return nil, err
	}
	return t, nil
}

// Snapshot returns the actual version of the table
func (t *Table) Snapshot() *Snapshot {
	return t.current.Load()
}

// SetWindow recomputes the table for a new visible window and publishes it as a new version.
// Snapshots taken before stay unchanged.
func (t *Table) SetWindow(minVisible, maxVisible int) (*Snapshot, error) {
	if minVisible < 0 || maxVisible > MaxZoom || maxVisible < minVisible {
		return nil, fmt.Errorf("%w: min %d, max %d", ErrInvalidWindow, minVisible, maxVisible)
	}
	t.wlock.Lock()
	defer t.wlock.Unlock()
	var version uint64 = 1
	if old := t.current.Load(); old != nil {
		version = old.Version + 1
	}
	entries := make([]Entry, 0, maxVisible-minVisible+1)
	base := initialResolution * 256 / float64(t.tileSize)
	for z := minVisible; z <= maxVisible; z++ {
		entries = append(entries, Entry{
			Zoom:       z,
			Resolution: base / float64(uint64(1)<<z),
		})
	}
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	s := &Snapshot{Version: version, Entries: entries}
	t.current.Store(s)
	return s, nil
}
