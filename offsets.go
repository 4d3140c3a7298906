// Page offset resolution.
//
// The start page printed in the catalogue is not the page number inside the
// scanned issue: covers and front matter push it back, and by a different
// amount per issue. Two sources correct for this:
//
//   - an override file of "YYYYMM startPage" lines naming the physical page
//     on which an issue's first catalogued article begins. When a month is
//     listed twice the smaller page wins.
//   - the catalogue itself, scanned once for the smallest numeric start page
//     of each month.
//
// For every month seen in the catalogue the offset is the physical first page
// (the override, or DefaultStart when there is none) minus the smallest
// catalogued start page. Adding the offset to a record's start page gives the
// page to open. Months that appear only in the override file keep the
// override's own offset, 1 - startPage.
package trdb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// DefaultStart is the physical page on which the first article of an issue
// usually begins.
const DefaultStart = 4

var ymPattern = regexp.MustCompile(`^\d{6}$`)

// Overrides maps "YYYY-MM" keys to the declared physical start page.
type Overrides map[string]int

// Offset returns the override's own page offset, 1 - startPage.
func (o Overrides) Offset(key string) (int, bool) {
	start, ok := o[key]
	if !ok {
		return 0, false
	}
	return 1 - start, true
}

// LoadOverrides reads an override file. A missing file is not an error and
// yields an empty table.
func LoadOverrides(path string) (Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Overrides{}, nil
		}
		return Overrides{}, fmt.Errorf("overrides: %w", err)
	}
	defer f.Close()
	return ParseOverrides(f)
}

// ParseOverrides reads "YYYYMM startPage" lines. Blank lines, '#' comments
// and lines that are not exactly two well-formed fields are ignored.
func ParseOverrides(r io.Reader) (Overrides, error) {
	out := Overrides{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ln := strings.TrimSpace(scanner.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		fields := strings.Fields(ln)
		if len(fields) != 2 || !ymPattern.MatchString(fields[0]) {
			continue
		}
		start, ok := numericPage(fields[1])
		if !ok {
			continue
		}
		key := fields[0][:4] + "-" + fields[0][4:]
		if prev, seen := out[key]; !seen || start < prev {
			out[key] = start
		}
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("overrides: %w", err)
	}
	return out, nil
}

// MinStartPages scans the whole catalogue for the smallest numeric start page
// of each dated month. Rows with fewer than six columns are ignored. A
// missing catalogue yields an empty table.
func (s *Source) MinStartPages(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for rec, err := range s.Records(ctx) {
		if err != nil {
			if errors.Is(err, ErrSourceNotFound) {
				return out, nil
			}
			return out, err
		}
		if rec.cols < 6 || !rec.Dated() {
			continue
		}
		start, ok := numericPage(rec.StartPage)
		if !ok {
			continue
		}
		key := rec.Key()
		if prev, seen := out[key]; !seen || start < prev {
			out[key] = start
		}
	}
	return out, nil
}

// OffsetTable is the resolved per-month page offset table.
type OffsetTable struct {
	Offsets      map[string]int `json:"offsets"`
	Default      int            `json:"default"`
	DefaultStart int            `json:"default_start"`
}

// ResolveOffsets merges overrides with the catalogue's minimum start pages.
// A non-positive defaultStart falls back to DefaultStart.
func ResolveOffsets(overrides Overrides, minPages map[string]int, defaultStart int) OffsetTable {
	if defaultStart <= 0 {
		defaultStart = DefaultStart
	}
	t := OffsetTable{
		Offsets:      make(map[string]int, len(overrides)+len(minPages)),
		Default:      1 - defaultStart,
		DefaultStart: defaultStart,
	}
	for key := range overrides {
		t.Offsets[key], _ = overrides.Offset(key)
	}
	for key, minStart := range minPages {
		if start, ok := overrides[key]; ok {
			t.Offsets[key] = start - minStart
			continue
		}
		t.Offsets[key] = defaultStart - minStart
	}
	return t
}

// Offset returns the offset for key, or the table default.
func (t OffsetTable) Offset(key string) int {
	if off, ok := t.Offsets[key]; ok {
		return off
	}
	return t.Default
}

// TargetPage returns the physical page on which rec begins. ok is false when
// the record is undated, its start page is not numeric, or the computed page
// is not positive.
func (t OffsetTable) TargetPage(rec Record) (int, bool) {
	if !rec.Dated() {
		return 0, false
	}
	start, ok := numericPage(rec.StartPage)
	if !ok {
		return 0, false
	}
	page := start + t.Offset(rec.Key())
	if page <= 0 {
		return 0, false
	}
	return page, true
}

// Offsets loads the override file and scans the catalogue to build the
// offset table.
func (s *Source) Offsets(ctx context.Context, overridePath string, defaultStart int) (OffsetTable, error) {
	overrides, err := LoadOverrides(overridePath)
	if err != nil {
		return ResolveOffsets(Overrides{}, nil, defaultStart), err
	}
	minPages, err := s.MinStartPages(ctx)
	if err != nil {
		return ResolveOffsets(overrides, nil, defaultStart), err
	}
	return ResolveOffsets(overrides, minPages, defaultStart), nil
}
