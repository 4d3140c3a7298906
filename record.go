// Catalogue rows.
//
// Each data line is a comma-separated row with optional double quoting:
//
//	year,month,title,subtitle,type,start_page,page_count,author
//
// Rows with fewer than two fields are noise and are dropped. Missing trailing
// columns become empty strings. Year and month are read leniently (leading
// digits after optional whitespace), so "2001 " and "07a" still parse, and
// anything unreadable becomes zero.
package trdb

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Columns is the column order of the catalogue and of exported CSV.
var Columns = []string{"year", "month", "title", "subtitle", "type", "start_page", "page_count", "author"}

// Record is one catalogue entry. StartPage and PageCount keep their raw text
// because the catalogue does not guarantee they are numeric.
type Record struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Type      string `json:"type"`
	StartPage string `json:"start_page"`
	PageCount string `json:"page_count"`
	Author    string `json:"author"`

	cols int // fields present in the source row
}

// Dated reports whether the record carries a usable year and month.
func (r Record) Dated() bool {
	return r.Year > 0 && r.Month > 0
}

// YM returns the record's YYYYMM value.
func (r Record) YM() int {
	return YM(r.Year, r.Month)
}

// Key returns the "YYYY-MM" key used by the offset table.
func (r Record) Key() string {
	return Key(r.Year, r.Month)
}

// TitleText is the text title queries run against.
func (r Record) TitleText() string {
	return strings.TrimSpace(r.Title + " " + r.Subtitle)
}

// AuthorText is the text author queries run against.
func (r Record) AuthorText() string {
	return r.Author
}

// Row returns the record as CSV fields in Columns order.
func (r Record) Row() []string {
	return []string{
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
		r.Title,
		r.Subtitle,
		r.Type,
		r.StartPage,
		r.PageCount,
		r.Author,
	}
}

// Key formats a year and month as "YYYY-MM".
func Key(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// parseRow splits one decoded line into fields. Quoting mistakes in the
// catalogue are tolerated rather than rejected.
func parseRow(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}

// decodeRecord maps a parsed row to a Record. ok is false for rows with fewer
// than two fields.
func decodeRecord(row []string) (Record, bool) {
	if len(row) < 2 {
		return Record{}, false
	}
	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Record{
		Year:      LeadingInt(col(0)),
		Month:     LeadingInt(col(1)),
		Title:     col(2),
		Subtitle:  col(3),
		Type:      col(4),
		StartPage: col(5),
		PageCount: col(6),
		Author:    col(7),
		cols:      len(row),
	}, true
}

// LeadingInt reads an optional sign and the leading decimal digits of s after
// skipping leading whitespace. It returns 0 when there are no digits.
func LeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// numericPage parses a start page the way the offset scan needs it: the whole
// trimmed value must be a number, and fractional values are truncated.
func numericPage(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
