package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	trdb "github.com/imenihs/TRDB-Searcher"
)

// ExportHandler handles GET /api/export requests and returns every record
// matching the search filters as Shift_JIS CSV. Pagination parameters are
// ignored.
func (r *Router) ExportHandler(w http.ResponseWriter, req *http.Request) {
	const endpoint = "export"
	ctx := req.Context()
	log := logr.FromContextOrDiscard(ctx)
	start := time.Now()

	var buf bytes.Buffer
	rows, warnings, err := r.source.Export(ctx, parseQuery(req.URL.Query()), &buf)
	switch {
	case errors.Is(err, trdb.ErrSourceNotFound):
		r.metrics.observe(endpoint, outcomeNotFound, time.Since(start))
		log.Error(err, "catalogue missing", "path", r.source.Path())
		writeJSON(w, req, http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("%s not found.", r.source.Name()),
		})
		return
	case errors.Is(err, trdb.ErrSourceOpen):
		r.metrics.observe(endpoint, outcomeError, time.Since(start))
		log.Error(err, "catalogue unreadable", "path", r.source.Path())
		writeJSON(w, req, http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("Failed to open %s.", r.source.Name()),
		})
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.metrics.observe(endpoint, outcomeCanceled, time.Since(start))
		log.V(1).Info("export aborted", "reason", err.Error())
		return
	case err != nil:
		r.metrics.observe(endpoint, outcomeError, time.Since(start))
		log.Error(err, "export failed", "url", req.URL.String())
		writeJSON(w, req, http.StatusInternalServerError, errorResponse{
			Error: "Failed to build export.",
		})
		return
	}

	outcome := outcomeOK
	if len(warnings) > 0 {
		outcome = outcomeWarning
		log.Info("export filter degraded", "warnings", warnings)
	}
	r.metrics.observe(endpoint, outcome, time.Since(start))
	log.V(1).Info("export completed", "rows", rows, "bytes", buf.Len())

	w.Header().Set("Content-Type", "text/csv; charset=Shift_JIS")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", trdb.ExportName))
	writeBody(w, req, http.StatusOK, buf.Bytes())
}
