// Package csvout writes extracted tables as CSV files.
package csvout

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/hyperifyio/readtable/internal/extract"
)

// Options controls the CSV dialect.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// UseCRLF terminates records with \r\n.
	UseCRLF bool
}

// Encode writes one record per row of table to w. Rows keep their own
// length; ragged tables are not padded. A row holding a single empty cell is
// written as "" so CSV readers do not skip it as a blank line.
func Encode(w io.Writer, table extract.Table, opts Options) error {
	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}
	cw.UseCRLF = opts.UseCRLF
	for i, row := range table {
		if len(row) == 1 && row[0] == "" {
			if err := writeEmptyRecord(w, cw, opts.UseCRLF); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
			continue
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeEmptyRecord(w io.Writer, cw *csv.Writer, crlf bool) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	rec := "\"\"\n"
	if crlf {
		rec = "\"\"\r\n"
	}
	_, err := io.WriteString(w, rec)
	return err
}

// Write serializes table to path, replacing any existing file.
func Write(table extract.Table, path string, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(f)
	if err := Encode(bw, table, opts); err != nil {
		return err
	}
	return bw.Flush()
}
