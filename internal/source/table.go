package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Table maps FileIDs to file paths. The checker consumes compiled IR
// modules, so unlike a frontend file set it stores paths only, never
// file contents.
type Table struct {
	paths []string
	index map[string]FileID
}

// NewTable creates an empty path table.
func NewTable() *Table {
	return &Table{
		paths: make([]string, 0),
		index: make(map[string]FileID),
	}
}

// Add registers a path and returns its FileID. Re-adding an existing
// path returns the previously assigned id.
func (t *Table) Add(path string) FileID {
	if id, ok := t.index[path]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(t.paths))
	if err != nil {
		panic(fmt.Errorf("file table overflow: %w", err))
	}
	id := FileID(n)
	t.paths = append(t.paths, path)
	t.index[path] = id
	return id
}

// Path returns the path registered for id, or "<unknown>" for ids the
// table has never seen.
func (t *Table) Path(id FileID) string {
	if t == nil || int(id) >= len(t.paths) {
		return "<unknown>"
	}
	return t.paths[id]
}

// Len возвращает количество файлов в таблице.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.paths)
}

// Format renders a span as path:start-end for diagnostics output.
func (t *Table) Format(s Span) string {
	return fmt.Sprintf("%s:%d-%d", t.Path(s.File), s.Start, s.End)
}
