// Package progression implements the XP level resolver and the mission completion engine.
// Everything here is pure: no I/O, no logging, no shared state.
package progression

import (
	"fmt"
)

// LevelEntry is one row of the level threshold table.
type LevelEntry struct {
	Level       int    `json:"level" yaml:"level"`
	XPThreshold int    `json:"xp_threshold" yaml:"xp_threshold"`
	Name        string `json:"name" yaml:"name"`
}

// LevelInfo is the resolved position of an XP total within a Table.
type LevelInfo struct {
	Level       int         `json:"level"`
	Name        string      `json:"name"`
	XPThreshold int         `json:"xp_threshold"`
	Next        *LevelEntry `json:"next_level,omitempty"`
	Progress    int         `json:"progress"`
}

// Table is an immutable, validated level threshold table ordered by ascending XP.
type Table struct {
	entries []LevelEntry
}

// DefaultTable is the built-in five level table.
var DefaultTable = mustTable(NewTable([]LevelEntry{
	{Level: 1, XPThreshold: 0, Name: "Newcomer"},
	{Level: 2, XPThreshold: 100, Name: "Learner"},
	{Level: 3, XPThreshold: 250, Name: "Collaborator"},
	{Level: 4, XPThreshold: 500, Name: "Networker"},
	{Level: 5, XPThreshold: 1000, Name: "Pathfinder"},
}))

func mustTable(t *Table, err error) *Table {
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable validates entries and returns a Table holding its own copy of them.
// Levels must be contiguous from 1, thresholds strictly increasing, and the
// lowest threshold must be 0.
func NewTable(entries []LevelEntry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidLevelTable)
	}
	if entries[0].XPThreshold != 0 {
		return nil, fmt.Errorf("%w: lowest threshold is %d, want 0", ErrInvalidLevelTable, entries[0].XPThreshold)
	}

	for i, e := range entries {
		if e.Level != i+1 {
			return nil, fmt.Errorf("%w: entry %d has level %d, want %d", ErrInvalidLevelTable, i, e.Level, i+1)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("%w: level %d has no name", ErrInvalidLevelTable, e.Level)
		}
		if i > 0 && e.XPThreshold <= entries[i-1].XPThreshold {
			return nil, fmt.Errorf("%w: threshold %d for level %d does not exceed %d",
				ErrInvalidLevelTable, e.XPThreshold, e.Level, entries[i-1].XPThreshold)
		}
	}

	cp := make([]LevelEntry, len(entries))
	copy(cp, entries)
	return &Table{entries: cp}, nil
}

// Entries returns a copy of the table rows.
func (t *Table) Entries() []LevelEntry {
	cp := make([]LevelEntry, len(t.entries))
	copy(cp, t.entries)
	return cp
}

// MaxLevel returns the highest level number.
func (t *Table) MaxLevel() int {
	return t.entries[len(t.entries)-1].Level
}

// Resolve maps xp to its level, the next level and the rounded percentage toward it.
func (t *Table) Resolve(xp int) (LevelInfo, error) {
	if xp < 0 {
		return LevelInfo{}, fmt.Errorf("%w: got %d", ErrNegativeXP, xp)
	}

	// Scan from the top; the first threshold at or below xp wins.
	current := t.entries[0]
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].XPThreshold <= xp {
			current = t.entries[i]
			break
		}
	}

	info := LevelInfo{
		Level:       current.Level,
		Name:        current.Name,
		XPThreshold: current.XPThreshold,
		Progress:    100,
	}

	if next, ok := t.entry(current.Level + 1); ok {
		info.Next = &next
		info.Progress = roundPercent(xp-current.XPThreshold, next.XPThreshold-current.XPThreshold)
	}

	return info, nil
}

// LevelOf returns only the level number for xp.
func (t *Table) LevelOf(xp int) (int, error) {
	info, err := t.Resolve(xp)
	if err != nil {
		return 0, err
	}
	return info.Level, nil
}

func (t *Table) entry(level int) (LevelEntry, bool) {
	idx := level - 1
	if idx < 0 || idx >= len(t.entries) {
		return LevelEntry{}, false
	}
	return t.entries[idx], true
}

// roundPercent computes round(100*num/den) with halves rounded up, in integers.
func roundPercent(num, den int) int {
	return (200*num + den) / (2 * den)
}

// ResolveLevel resolves xp against DefaultTable.
func ResolveLevel(xp int) (LevelInfo, error) {
	return DefaultTable.Resolve(xp)
}
