package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	trdb "github.com/imenihs/TRDB-Searcher"
)

type searchMeta struct {
	Total             int             `json:"total"`
	Returned          int             `json:"returned"`
	Offset            int             `json:"offset"`
	Limit             int             `json:"limit"`
	LastData          *trdb.YearMonth `json:"last_data"`
	MinData           *trdb.YearMonth `json:"min_data"`
	PDFBase           string          `json:"pdf_base"`
	PDFOffsets        map[string]int  `json:"pdf_offsets"`
	PDFOffsetDefault  int             `json:"pdf_offset_default"`
	FileOffsets       map[string]int  `json:"file_offsets"`
	FileOffsetDefault int             `json:"file_offset_default"`
}

type searchResponse struct {
	Meta   searchMeta  `json:"meta"`
	Items  []trdb.Item `json:"items"`
	Errors []string    `json:"errors,omitempty"`
}

// SearchHandler handles GET /api/search requests and returns one page of
// matching records together with the page offset table.
// Example: /api/search?title=amp%20|%20filter&from_year=1990&limit=50
func (r *Router) SearchHandler(w http.ResponseWriter, req *http.Request) {
	const endpoint = "search"
	ctx := req.Context()
	log := logr.FromContextOrDiscard(ctx)
	start := time.Now()

	q := parseQuery(req.URL.Query())

	// Resolve page offsets; a broken override file degrades to defaults
	table, err := r.source.Offsets(ctx, r.conf.ModPath, r.conf.DefaultStart)
	if err != nil {
		if ctx.Err() != nil {
			r.metrics.observe(endpoint, outcomeCanceled, time.Since(start))
			return
		}
		log.Error(err, "failed to resolve page offsets", "mod_path", r.conf.ModPath)
	}

	meta := searchMeta{
		PDFBase:           r.conf.PDFBase,
		PDFOffsets:        table.Offsets,
		PDFOffsetDefault:  table.Default,
		FileOffsets:       table.Offsets,
		FileOffsetDefault: table.Default,
	}

	res, err := r.source.Search(ctx, q)
	switch {
	case errors.Is(err, trdb.ErrSourceNotFound):
		r.metrics.observe(endpoint, outcomeNotFound, time.Since(start))
		log.Error(err, "catalogue missing", "path", r.source.Path())
		writeJSON(w, req, http.StatusInternalServerError, searchResponse{
			Meta:   meta,
			Items:  []trdb.Item{},
			Errors: []string{fmt.Sprintf("%s not found.", r.source.Name())},
		})
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.metrics.observe(endpoint, outcomeCanceled, time.Since(start))
		log.V(1).Info("search aborted", "reason", err.Error())
		return
	case err != nil:
		r.metrics.observe(endpoint, outcomeError, time.Since(start))
		log.Error(err, "search failed", "url", req.URL.String())
		writeJSON(w, req, http.StatusInternalServerError, searchResponse{
			Meta:   meta,
			Items:  []trdb.Item{},
			Errors: []string{fmt.Sprintf("Failed to read %s.", r.source.Name())},
		})
		return
	}

	meta.Total = res.Total
	meta.Returned = res.Returned()
	meta.Offset = res.Offset
	meta.Limit = res.Limit
	meta.LastData = res.Last
	meta.MinData = res.First

	outcome := outcomeOK
	if len(res.Errors) > 0 {
		outcome = outcomeWarning
	}
	r.metrics.addScanned(res.Scanned)
	r.metrics.observe(endpoint, outcome, time.Since(start))

	writeJSON(w, req, http.StatusOK, searchResponse{
		Meta:   meta,
		Items:  r.library.Annotate(res.Items, &table),
		Errors: res.Errors,
	})
}
