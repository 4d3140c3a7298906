package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	trdb "github.com/imenihs/TRDB-Searcher"
)

// queryFlags are the filter flags shared by search and export.
type queryFlags struct {
	title         string
	titleMode     string
	author        string
	authorMode    string
	caseSensitive bool
	wordMatch     bool
	from          string
	to            string
}

func (f *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title query, matched against title and subtitle.")
	cmd.Flags().StringVar(&f.titleMode, "title-mode", string(trdb.ModeKeyword), "Title query mode: keyword or regex.")
	cmd.Flags().StringVar(&f.author, "author", "", "Author query.")
	cmd.Flags().StringVar(&f.authorMode, "author-mode", string(trdb.ModeKeyword), "Author query mode: keyword or regex.")
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "Match case exactly.")
	cmd.Flags().BoolVar(&f.wordMatch, "word-match", false, "Require keyword matches on word boundaries.")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest issue as YYYY or YYYY-MM.")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest issue as YYYY or YYYY-MM.")
}

func (f *queryFlags) query() (trdb.Query, error) {
	fromYear, fromMonth, err := parseYearMonth(f.from)
	if err != nil {
		return trdb.Query{}, fmt.Errorf("invalid --from: %w", err)
	}
	toYear, toMonth, err := parseYearMonth(f.to)
	if err != nil {
		return trdb.Query{}, fmt.Errorf("invalid --to: %w", err)
	}
	titleMode, err := mode(f.titleMode)
	if err != nil {
		return trdb.Query{}, err
	}
	authorMode, err := mode(f.authorMode)
	if err != nil {
		return trdb.Query{}, err
	}
	return trdb.Query{
		Title:         f.title,
		TitleMode:     titleMode,
		Author:        f.author,
		AuthorMode:    authorMode,
		CaseSensitive: f.caseSensitive,
		WordMatch:     f.wordMatch,
		FromYear:      fromYear,
		FromMonth:     fromMonth,
		ToYear:        toYear,
		ToMonth:       toMonth,
	}, nil
}

func mode(s string) (trdb.Mode, error) {
	switch trdb.Mode(s) {
	case trdb.ModeKeyword, trdb.ModeRegex:
		return trdb.Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q, must be keyword or regex", trdb.ErrInvalidMode, s)
}

// parseYearMonth reads YYYY or YYYY-MM. An empty string is no bound.
func parseYearMonth(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	ys, ms, hasMonth := strings.Cut(s, "-")
	year, err := strconv.Atoi(ys)
	if err != nil || year <= 0 {
		return 0, 0, fmt.Errorf("year in '%s' is not a positive number", s)
	}
	if !hasMonth {
		return year, 0, nil
	}
	month, err := strconv.Atoi(ms)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month in '%s' must be between 1 and 12", s)
	}
	return year, month, nil
}
