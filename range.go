// Year-month range filtering.
//
// Dates are compared as YYYYMM integers. A side is only bounded when its
// year is positive; the month of a bounded side falls back to January for
// the lower bound and December for the upper one when it is out of range.
// Inverted bounds are swapped rather than rejected.
package trdb

// Unbounded range edges.
const (
	MinYM = 0
	MaxYM = 999912
)

// Range is an inclusive [From, To] interval of YYYYMM values.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// BuildRange normalises user input into a Range. It returns nil when neither
// year is given, meaning no date filtering.
func BuildRange(fromYear, fromMonth, toYear, toMonth int) *Range {
	if fromYear <= 0 && toYear <= 0 {
		return nil
	}

	r := Range{From: MinYM, To: MaxYM}
	if fromYear > 0 {
		if fromMonth < 1 || fromMonth > 12 {
			fromMonth = 1
		}
		r.From = YM(fromYear, fromMonth)
	}
	if toYear > 0 {
		if toMonth < 1 || toMonth > 12 {
			toMonth = 12
		}
		r.To = YM(toYear, toMonth)
	}
	if r.From > r.To {
		r.From, r.To = r.To, r.From
	}
	return &r
}

// Contains reports whether ym lies inside the range. A nil Range contains
// everything.
func (r *Range) Contains(ym int) bool {
	if r == nil {
		return true
	}
	return ym >= r.From && ym <= r.To
}

// YM packs a year and month into a YYYYMM integer.
func YM(year, month int) int {
	return year*100 + month
}

// Keeps reports whether a record dated year/month passes the range. Rows
// without a usable year or month never pass an active range.
func (r *Range) Keeps(year, month int) bool {
	if r == nil {
		return true
	}
	if year <= 0 || month <= 0 {
		return false
	}
	return r.Contains(YM(year, month))
}
