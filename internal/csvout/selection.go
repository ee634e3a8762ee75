package csvout

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/readtable/internal/extract"
)

// DefaultFileName is used when only the first table is written.
const DefaultFileName = "output.csv"

// Mode is the kind of table selection.
type Mode int

const (
	// ModeFirst writes only the first table to a fixed file name.
	ModeFirst Mode = iota
	// ModeAll writes every table to table_<n>.csv.
	ModeAll
	// ModeIndexes writes the listed 1-based tables to table_<n>.csv.
	ModeIndexes
)

// Selection decides which extracted tables are written.
type Selection struct {
	Mode    Mode
	Indexes []int
}

// Selected is a table together with its 1-based position in the document.
type Selected struct {
	Index int
	Table extract.Table
}

// ParseSelection accepts "first" (or ""), "all", or a comma separated list
// of 1-based table numbers such as "2,4".
func ParseSelection(s string) (Selection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "first":
		return Selection{Mode: ModeFirst}, nil
	case "all":
		return Selection{Mode: ModeAll}, nil
	}
	var idx []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return Selection{}, fmt.Errorf("invalid table selector %q", part)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		idx = append(idx, n)
	}
	if len(idx) == 0 {
		return Selection{}, fmt.Errorf("invalid table selector %q", s)
	}
	return Selection{Mode: ModeIndexes, Indexes: idx}, nil
}

func (s Selection) String() string {
	switch s.Mode {
	case ModeAll:
		return "all"
	case ModeIndexes:
		parts := make([]string, len(s.Indexes))
		for i, n := range s.Indexes {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	}
	return "first"
}

// Apply picks tables according to the selection. Indexes past the end of
// tables are skipped with a warning.
func (s Selection) Apply(tables []extract.Table) []Selected {
	switch s.Mode {
	case ModeAll:
		out := make([]Selected, 0, len(tables))
		for i, t := range tables {
			out = append(out, Selected{Index: i + 1, Table: t})
		}
		return out
	case ModeIndexes:
		out := make([]Selected, 0, len(s.Indexes))
		for _, n := range s.Indexes {
			if n > len(tables) {
				log.Warn().Int("table", n).Int("found", len(tables)).Msg("table index out of range; skipping")
				continue
			}
			out = append(out, Selected{Index: n, Table: tables[n-1]})
		}
		return out
	}
	if len(tables) == 0 {
		return nil
	}
	return []Selected{{Index: 1, Table: tables[0]}}
}

// Paths returns the output file for each selected table, in dir. The first
// table mode uses fixedName (DefaultFileName when empty); the others use
// table_<n>.csv.
func (s Selection) Paths(selected []Selected, dir string, fixedName string) []string {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if strings.TrimSpace(fixedName) == "" {
		fixedName = DefaultFileName
	}
	out := make([]string, len(selected))
	for i, sel := range selected {
		name := fixedName
		if s.Mode != ModeFirst {
			name = fmt.Sprintf("table_%d.csv", sel.Index)
		}
		out[i] = filepath.Join(dir, name)
	}
	return out
}
