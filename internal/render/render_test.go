package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/readtable/internal/extract"
)

func TestPreview_RendersHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	table := extract.Table{{"Language", "Year"}, {"Go", "2009"}, {"Python"}}
	Preview(&buf, 1, table, 0)

	out := buf.String()
	assert.Contains(t, out, "Language")
	assert.Contains(t, out, "2009")
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "table 1: 3 rows x 2 columns")
}

func TestPreview_LimitsRows(t *testing.T) {
	var buf bytes.Buffer
	table := extract.Table{{"h"}, {"r1"}, {"r2"}, {"r3"}}
	Preview(&buf, 2, table, 1)

	out := buf.String()
	assert.Contains(t, out, "r1")
	assert.NotContains(t, out, "r3")
	assert.Contains(t, out, "(showing 2)")
}

func TestPreview_EmptyTableWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	Preview(&buf, 1, nil, 0)
	assert.Zero(t, buf.Len())
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.pdf")
	sections := []Section{
		{Index: 1, Table: extract.Table{{"Name", "Note"}, {"Zürich", strings.Repeat("long text ", 40)}}},
		{Index: 3, Table: extract.Table{{"x"}}},
	}
	require.NoError(t, WritePDF(path, "example.html", sections))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "missing PDF header")
}

func TestWritePDF_NoSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, WritePDF(path, "", nil))
	_, err := os.Stat(path)
	require.NoError(t, err)
}
