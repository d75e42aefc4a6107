// Package history keeps a linear undo/redo log of scene snapshots.
package history

import "github.com/brandkit/brandkit/backend-go/internal/document"

// Log is an ordered list of scene snapshots plus a cursor at the current one.
// Entries after the cursor are the redo branch; recording after an undo
// discards them.
type Log struct {
	entries []document.Scene
	cursor  int
}

// New returns an empty log. Its cursor sits before the first entry.
func New() *Log {
	return &Log{cursor: -1}
}

// Record appends a deep copy of scene, dropping any redo branch first.
func (l *Log) Record(scene document.Scene) {
	if l.cursor < len(l.entries)-1 {
		l.entries = l.entries[:l.cursor+1]
	}
	snap := scene.Clone()
	if snap == nil {
		snap = document.Scene{}
	}
	l.entries = append(l.entries, snap)
	l.cursor = len(l.entries) - 1
}

// Undo steps the cursor back and returns a copy of the entry it lands on.
// The second result is false when there is nothing to undo.
func (l *Log) Undo() (document.Scene, bool) {
	if l.cursor <= 0 {
		return nil, false
	}
	l.cursor--
	return l.entries[l.cursor].Clone(), true
}

// Redo steps the cursor forward and returns a copy of the entry it lands on.
func (l *Log) Redo() (document.Scene, bool) {
	if l.cursor >= len(l.entries)-1 {
		return nil, false
	}
	l.cursor++
	return l.entries[l.cursor].Clone(), true
}

func (l *Log) CanUndo() bool { return l.cursor > 0 }
func (l *Log) CanRedo() bool { return l.cursor < len(l.entries)-1 }

// Len returns the number of recorded entries.
func (l *Log) Len() int { return len(l.entries) }

// Cursor returns the index of the current entry, or -1 when empty.
func (l *Log) Cursor() int { return l.cursor }

// RedoDepth returns how many entries lie after the cursor.
func (l *Log) RedoDepth() int { return len(l.entries) - 1 - l.cursor }

// Each calls fn for every stored entry, oldest first. Entries must not be
// modified.
func (l *Log) Each(fn func(document.Scene)) {
	for _, e := range l.entries {
		fn(e)
	}
}
