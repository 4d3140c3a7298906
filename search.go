// Filtered, paginated search over the catalogue.
//
// A row counts toward Total once it passes the date range and both field
// matchers. It lands on the returned page only when Total has moved past
// Offset and the page still has room. Pagination therefore applies to the
// filtered stream, and counting continues to the end of the file after the
// page fills up.
//
// First and Last track the first and last dated rows of the whole file,
// independent of the query, so clients can clamp their date inputs to the
// span the catalogue actually covers.
package trdb

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Pagination bounds.
const (
	DefaultLimit = 200
	MaxLimit     = 1000
)

// Query describes one search request.
type Query struct {
	Title         string
	TitleMode     Mode
	Author        string
	AuthorMode    Mode
	CaseSensitive bool
	WordMatch     bool
	FromYear      int
	FromMonth     int
	ToYear        int
	ToMonth       int
	Limit         int
	Offset        int
}

// Page returns the clamped limit and offset.
func (q Query) Page() (limit, offset int) {
	limit = min(max(q.Limit, 1), MaxLimit)
	offset = max(q.Offset, 0)
	return limit, offset
}

// Filter is a compiled Query: the date range and one matcher per field.
type Filter struct {
	Range  *Range
	Title  Matcher
	Author Matcher
}

// Compile builds the Filter for q. Problems with individual fields come back
// as user-facing warnings; the affected matcher rejects every row.
func (q Query) Compile() (Filter, []string) {
	opts := MatchOptions{CaseSensitive: q.CaseSensitive, WordMatch: q.WordMatch}

	var warnings []string
	title, err := NewMatcher(q.Title, q.TitleMode, opts)
	if err != nil {
		warnings = append(warnings, warning("title", err))
	}
	author, err := NewMatcher(q.Author, q.AuthorMode, opts)
	if err != nil {
		warnings = append(warnings, warning("author", err))
	}

	return Filter{
		Range:  BuildRange(q.FromYear, q.FromMonth, q.ToYear, q.ToMonth),
		Title:  title,
		Author: author,
	}, warnings
}

func warning(field string, err error) string {
	if errors.Is(err, ErrInvalidPattern) {
		return fmt.Sprintf("Invalid %s regex pattern.", field)
	}
	return fmt.Sprintf("Invalid %s query: %v", field, err)
}

// Keep reports whether rec passes every part of the filter.
func (f Filter) Keep(rec Record) bool {
	return f.Range.Keeps(rec.Year, rec.Month) &&
		f.Title.Match(rec.TitleText()) &&
		f.Author.Match(rec.AuthorText())
}

// YearMonth is a calendar month.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Result is one page of search output.
type Result struct {
	Total   int
	Offset  int
	Limit   int
	Items   []Record
	First   *YearMonth // earliest dated row in the file
	Last    *YearMonth // latest dated row in the file
	Scanned int        // rows read, matching or not
	Errors  []string
}

// Returned is the number of items on the page.
func (r *Result) Returned() int {
	return len(r.Items)
}

// Search runs q over the catalogue. A missing catalogue returns
// ErrSourceNotFound. A catalogue that exists but cannot be opened is not an
// error: the result is empty and carries a message in Errors, matching the
// treatment of invalid patterns.
func (s *Source) Search(ctx context.Context, q Query) (*Result, error) {
	if err := s.Check(); errors.Is(err, ErrSourceNotFound) {
		return nil, err
	}

	limit, offset := q.Page()
	filter, warnings := q.Compile()
	res := &Result{
		Offset: offset,
		Limit:  limit,
		Items:  []Record{},
		Errors: warnings,
	}

	for rec, err := range s.Records(ctx) {
		if err != nil {
			if errors.Is(err, ErrSourceNotFound) || errors.Is(err, ErrSourceOpen) {
				res.Errors = append(res.Errors, fmt.Sprintf("Failed to open %s.", s.Name()))
				return res, nil
			}
			return nil, err
		}
		res.Scanned++

		if rec.Dated() {
			ym := &YearMonth{Year: rec.Year, Month: rec.Month}
			if res.First == nil {
				res.First = ym
			}
			res.Last = ym
		}

		if !filter.Keep(rec) {
			continue
		}
		res.Total++
		if res.Total <= offset || len(res.Items) >= limit {
			continue
		}
		res.Items = append(res.Items, rec)
	}

	return res, nil
}

// Match streams every record that passes q, ignoring pagination. Warnings
// from compiling q are returned up front.
func (s *Source) Match(ctx context.Context, q Query) ([]string, iter.Seq2[Record, error]) {
	filter, warnings := q.Compile()
	return warnings, func(yield func(Record, error) bool) {
		for rec, err := range s.Records(ctx) {
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !filter.Keep(rec) {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
