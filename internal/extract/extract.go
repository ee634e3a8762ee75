package extract

import (
	"strings"
	"unicode"
)

// NestedPolicy decides what a table-open tag does while a table is already open.
type NestedPolicy int

const (
	// NestedIgnore ignores the inner table tags. The matching inner close tag
	// is ignored as well, so the outer table is committed by its own close.
	NestedIgnore NestedPolicy = iota
	// NestedRestart drops the rows collected so far and restarts capture.
	NestedRestart
)

// ParseNestedPolicy maps "ignore" and "restart" to a policy. An empty
// string selects NestedIgnore.
func ParseNestedPolicy(s string) (NestedPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return NestedIgnore, true
	case "restart":
		return NestedRestart, true
	}
	return NestedIgnore, false
}

func (p NestedPolicy) String() string {
	if p == NestedRestart {
		return "restart"
	}
	return "ignore"
}

// Options tune the extractor. The zero value is the default behavior.
type Options struct {
	Nested NestedPolicy
	// FragmentStrip trims every text fragment before it is appended to the
	// cell, so "Foo <b>Bar</b>" becomes "FooBar" instead of "Foo Bar".
	FragmentStrip bool
	// MaxTables stops the scan once this many tables were committed. Zero
	// means no limit.
	MaxTables int
}

// StreamExtractor scans markup once and collects every committed table.
type StreamExtractor struct {
	Options Options
}

// Extract returns the tables of markup in source order. It never fails:
// unmatched close tags are no-ops and structures left open at the end of
// input are dropped.
func (e StreamExtractor) Extract(markup string) []Table {
	s := &scanState{opts: e.Options}
	tok := NewTokenizer(strings.NewReader(markup))
	for {
		ev := tok.Next()
		if ev.Kind == EOF {
			break
		}
		s.handle(ev)
		if s.opts.MaxTables > 0 && len(s.results) >= s.opts.MaxTables {
			break
		}
	}
	return s.results
}

// Extract runs a StreamExtractor with default options.
func Extract(markup string) []Table {
	return StreamExtractor{}.Extract(markup)
}

// scanState is owned by a single Extract call.
type scanState struct {
	opts Options

	insideTable bool
	insideRow   bool
	insideCell  bool
	// ignored counts inner tables skipped under NestedIgnore.
	ignored int

	cell    strings.Builder
	row     Row
	table   Table
	results []Table
}

func (s *scanState) handle(ev Event) {
	switch ev.Kind {
	case TableOpen:
		if s.insideTable {
			if s.opts.Nested == NestedIgnore {
				s.ignored++
				return
			}
			// restart: nothing opened before this tag may leak into the new table
			s.insideRow = false
			s.insideCell = false
			s.row = nil
			s.cell.Reset()
		}
		s.insideTable = true
		s.table = nil
	case RowOpen:
		if !s.insideTable {
			return
		}
		s.insideRow = true
		s.row = nil
	case CellOpen:
		if !s.insideRow {
			return
		}
		s.insideCell = true
		s.cell.Reset()
	case Text:
		if !s.insideCell {
			return
		}
		if s.opts.FragmentStrip {
			s.cell.WriteString(strings.TrimSpace(ev.Text))
			return
		}
		s.cell.WriteString(ev.Text)
	case CellClose:
		if !s.insideCell {
			return
		}
		s.row = append(s.row, Normalize(s.cell.String()))
		s.insideCell = false
	case RowClose:
		if !s.insideRow {
			return
		}
		if len(s.row) > 0 {
			s.table = append(s.table, append(Row(nil), s.row...))
		}
		s.insideRow = false
	case TableClose:
		if !s.insideTable {
			return
		}
		if s.ignored > 0 {
			s.ignored--
			return
		}
		if len(s.table) > 0 {
			s.results = append(s.results, append(Table(nil), s.table...))
		}
		s.insideTable = false
	}
}

// Normalize collapses every run of whitespace to a single space and trims
// both ends.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
