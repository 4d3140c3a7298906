package web

import (
	"net/http"

	"github.com/go-logr/logr"
)

// OffsetsHandler handles GET /api/offsets requests and returns the resolved
// page offset table on its own.
func (r *Router) OffsetsHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	table, err := r.source.Offsets(ctx, r.conf.ModPath, r.conf.DefaultStart)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logr.FromContextOrDiscard(ctx).Error(err, "failed to resolve page offsets", "mod_path", r.conf.ModPath)
		writeJSON(w, req, http.StatusInternalServerError, errorResponse{Error: "Failed to resolve page offsets."})
		return
	}

	writeJSON(w, req, http.StatusOK, table)
}
