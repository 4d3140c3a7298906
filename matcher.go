// Field matchers for title and author filters.
//
// A Matcher is one of four variants: MatchAll for an empty query, MatchNone
// for a regex that failed to compile, MatchRegex, and MatchBoolean for a
// keyword expression compiled to postfix. Construction reports a compile failure as an error
// next to a usable MatchNone matcher so the caller can keep scanning and
// surface the problem as a warning.
//
// Case-insensitive keyword matching folds both the term and the field with
// Unicode case folding rather than a byte-wise lower-casing, so full-width
// Latin letters and other non-ASCII cased scripts compare as expected.
package trdb

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Mode selects how a field query is interpreted.
type Mode string

const (
	ModeKeyword Mode = "keyword"
	ModeRegex   Mode = "regex"
)

// ParseMode maps a request parameter to a Mode. Anything other than "regex"
// is keyword mode.
func ParseMode(s string) Mode {
	if s == string(ModeRegex) {
		return ModeRegex
	}
	return ModeKeyword
}

// MatcherKind tags the Matcher variant.
type MatcherKind int

const (
	MatchAll MatcherKind = iota
	MatchNone
	MatchRegex
	MatchBoolean
)

// MatchOptions controls keyword comparison. WordMatch has no effect in regex
// mode, where the pattern can express boundaries itself.
type MatchOptions struct {
	CaseSensitive bool
	WordMatch     bool
}

// Matcher tests a single field of a record.
type Matcher struct {
	Kind MatcherKind
	re   *regexp.Regexp
	rpn  []Token
	opts MatchOptions
}

// NewMatcher compiles query for the given mode. An empty (or blank) query
// matches everything. If a regex does not compile the returned matcher
// rejects everything and the error wraps ErrInvalidPattern.
func NewMatcher(query string, mode Mode, opts MatchOptions) (Matcher, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Matcher{Kind: MatchAll}, nil
	}

	switch mode {
	case ModeRegex:
		pattern := query
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Matcher{Kind: MatchNone}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}
		return Matcher{Kind: MatchRegex, re: re, opts: opts}, nil
	case ModeKeyword, "":
	default:
		return Matcher{Kind: MatchNone}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return Matcher{Kind: MatchAll}, nil
	}
	rpn := ToRPN(tokens)
	if !opts.CaseSensitive {
		for i := range rpn {
			if rpn[i].Kind == TokenTerm {
				rpn[i].Text = fold(rpn[i].Text)
			}
		}
	}
	return Matcher{Kind: MatchBoolean, rpn: rpn, opts: opts}, nil
}

// Match reports whether text satisfies the matcher.
func (m Matcher) Match(text string) bool {
	switch m.Kind {
	case MatchAll:
		return true
	case MatchRegex:
		return m.re.MatchString(text)
	case MatchBoolean:
		if !m.opts.CaseSensitive {
			text = fold(text)
		}
		return EvalRPN(m.rpn, func(term string) bool {
			return contains(text, term, m.opts.WordMatch)
		})
	}
	return false
}

// fold applies Unicode case folding. A fresh Caser is used per call because
// Casers carry state and must not be shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// contains reports whether term occurs in text. With whole set, at least one
// occurrence must sit between non-alphanumeric runes or the string edges.
// An empty term always matches.
func contains(text, term string, whole bool) bool {
	if term == "" {
		return true
	}
	if !whole {
		return strings.Contains(text, term)
	}

	for from := 0; from <= len(text)-len(term); {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
