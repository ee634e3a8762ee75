package extract

// Cell is the normalized text content of a single td or th element.
type Cell = string

// Row is an ordered sequence of cells. Rows without cells are never emitted.
type Row []Cell

// Table is an ordered sequence of rows. Tables without rows are never emitted.
type Table []Row

// Width returns the number of cells in the widest row.
func (t Table) Width() int {
	w := 0
	for _, r := range t {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// CellCount returns the total number of cells across all rows.
func (t Table) CellCount() int {
	n := 0
	for _, r := range t {
		n += len(r)
	}
	return n
}
