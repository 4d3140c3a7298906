// CSV export of every matching row.
//
// The export is assembled in memory as UTF-8 CSV and re-encoded to Shift_JIS
// in one step at the end, which is what spreadsheet software on the
// catalogue's home systems expects. Characters with no Shift_JIS form are
// replaced rather than failing the export.
package trdb

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// ExportName is the file name offered to clients for a full export.
const ExportName = "tr_search_all.csv"

// Export writes every row matching q as Shift_JIS CSV with a header line.
// Pagination fields of q are ignored. It returns the number of rows written
// and any field warnings. A missing or unreadable catalogue is an error and
// nothing is written.
func (s *Source) Export(ctx context.Context, q Query, w io.Writer) (int, []string, error) {
	if err := s.Check(); err != nil {
		return 0, nil, err
	}

	warnings, rows := s.Match(ctx, q)

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(Columns); err != nil {
		return 0, warnings, err
	}

	n := 0
	for rec, err := range rows {
		if err != nil {
			return 0, warnings, err
		}
		if err := cw.Write(rec.Row()); err != nil {
			return 0, warnings, err
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, warnings, err
	}

	out, err := EncodeShiftJIS(buf.Bytes())
	if err != nil {
		return 0, warnings, fmt.Errorf("export: encode: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return 0, warnings, fmt.Errorf("export: write: %w", err)
	}
	return n, warnings, nil
}

// EncodeShiftJIS converts UTF-8 text to Shift_JIS, substituting characters
// that have no mapping.
func EncodeShiftJIS(b []byte) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	out, err := enc.Bytes(b)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeShiftJIS converts Shift_JIS text to UTF-8.
func DecodeShiftJIS(b []byte) ([]byte, error) {
	return japanese.ShiftJIS.NewDecoder().Bytes(b)
}
