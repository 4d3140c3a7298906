package web

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-logr/logr"
)

var (
	yearParam  = regexp.MustCompile(`^\d{4}$`)
	monthParam = regexp.MustCompile(`^\d{1,2}$`)
)

// PDFHandler handles GET /pdf requests and streams the scanned issue for a
// month. An optional name picks among the month's candidate files.
// Example: /pdf?year=2001&month=2&name=TR200102.pdf
func (r *Router) PDFHandler(w http.ResponseWriter, req *http.Request) {
	params := req.URL.Query()
	year, month := params.Get("year"), params.Get("month")
	if !yearParam.MatchString(year) || !monthParam.MatchString(month) {
		http.Error(w, "Invalid parameters", http.StatusBadRequest)
		return
	}
	if r.library.Dir() == "" {
		http.Error(w, "PDF base path not configured", http.StatusInternalServerError)
		return
	}

	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	doc, ok := r.library.Locate(y, m, params.Get("name"))
	if !ok {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	f, err := r.library.Open(doc)
	if err != nil {
		logr.FromContextOrDiscard(req.Context()).Error(err, "failed to open document", "path", doc.Path)
		http.Error(w, "Failed to open PDF", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "Failed to open PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Name))
	http.ServeContent(w, req, doc.Name, info.ModTime(), f)
}
