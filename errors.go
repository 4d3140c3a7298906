// Package trdb searches a flat, append-only text catalogue of periodical
// records (year, month, title, subtitle, type, start page, page count,
// author) stored as Shift_JIS comma-separated lines.
//
// Every query re-reads the source file from the top. There is no index and
// no cache: the file is small, it changes only when an operator replaces it,
// and a full scan is the only way to report an exact total alongside a
// paginated slice. Title and author filters are keyword expressions with
// boolean operators or regular expressions; a year-month range narrows the
// stream further.
//
// The page offset table maps each issue to the shift between the start page
// printed in the catalogue and the physical page inside the scanned
// document, combining a hand-maintained override file with the minimum
// start page observed in the catalogue itself.
package trdb

import "errors"

// Sentinel errors for programmatic handling. Callers use errors.Is to tell a
// missing catalogue (ErrSourceNotFound) from one that exists but could not
// be opened (ErrSourceOpen).
var (
	ErrSourceNotFound = errors.New("source file not found")
	ErrSourceOpen     = errors.New("source file could not be opened")
	ErrInvalidPattern = errors.New("invalid regex pattern")
	ErrInvalidMode    = errors.New("invalid match mode")
)
