package source

import "testing"

func TestSpanEmptyAndLen(t *testing.T) {
	s := Span{File: 0, Start: 4, End: 9}
	if s.Empty() {
		t.Error("non-degenerate span reported empty")
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}

	e := Span{File: 0, Start: 7, End: 7}
	if !e.Empty() || e.Len() != 0 {
		t.Error("degenerate span must be empty with zero length")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Errorf("Cover = %v, want 1:5-20", got)
	}

	// Чужой файл не расширяет спан.
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
}

func TestSpanString(t *testing.T) {
	s := Span{File: 3, Start: 12, End: 34}
	if got := s.String(); got != "3:12-34" {
		t.Errorf("String() = %q, want %q", got, "3:12-34")
	}
}

func TestTableAddIsIdempotent(t *testing.T) {
	tab := NewTable()
	a := tab.Add("app/main.sw")
	b := tab.Add("app/worker.sw")
	if a == b {
		t.Fatal("distinct paths must get distinct ids")
	}
	if tab.Add("app/main.sw") != a {
		t.Error("re-adding a path must return the original id")
	}
	if tab.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tab.Len())
	}
}

func TestTablePathUnknown(t *testing.T) {
	tab := NewTable()
	tab.Add("app/main.sw")
	if got := tab.Path(0); got != "app/main.sw" {
		t.Errorf("Path(0) = %q", got)
	}
	if got := tab.Path(42); got != "<unknown>" {
		t.Errorf("Path(42) = %q, want <unknown>", got)
	}

	var nilTab *Table
	if got := nilTab.Path(0); got != "<unknown>" {
		t.Errorf("nil table Path = %q, want <unknown>", got)
	}
	if nilTab.Len() != 0 {
		t.Error("nil table Len must be 0")
	}
}

func TestTableFormat(t *testing.T) {
	tab := NewTable()
	id := tab.Add("app/main.sw")
	got := tab.Format(Span{File: id, Start: 10, End: 12})
	if got != "app/main.sw:10-12" {
		t.Errorf("Format = %q", got)
	}
}
