package web

import (
	"net/url"
	"strings"

	trdb "github.com/imenihs/TRDB-Searcher"
)

// parseQuery reads the search filters from request parameters. Numbers are
// read leniently: leading digits count and anything unreadable is zero. An
// absent limit means trdb.DefaultLimit; clamping happens in the core.
func parseQuery(values url.Values) trdb.Query {
	return trdb.Query{
		Title:         strings.TrimSpace(values.Get("title")),
		TitleMode:     trdb.ParseMode(values.Get("title_mode")),
		Author:        strings.TrimSpace(values.Get("author")),
		AuthorMode:    trdb.ParseMode(values.Get("author_mode")),
		CaseSensitive: values.Get("case_sensitive") == "1",
		WordMatch:     values.Get("word_match") == "1",
		FromYear:      intParam(values, "from_year", 0),
		FromMonth:     intParam(values, "from_month", 0),
		ToYear:        intParam(values, "to_year", 0),
		ToMonth:       intParam(values, "to_month", 0),
		Limit:         intParam(values, "limit", trdb.DefaultLimit),
		Offset:        intParam(values, "offset", 0),
	}
}

func intParam(values url.Values, key string, def int) int {
	if !values.Has(key) {
		return def
	}
	return trdb.LeadingInt(values.Get(key))
}
