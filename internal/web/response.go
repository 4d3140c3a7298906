package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"
)

// errorResponse is the body of failed export and offsets requests.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// writeJSON encodes v and writes it with writeBody. Non-ASCII text and HTML
// characters are written literally.
func writeJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeBody(w, req, status, buf.Bytes())
}

// writeBody writes a complete response body. Successful responses carry an
// ETag derived from the body and are answered with 304 Not Modified when
// the client already holds the same body.
func writeBody(w http.ResponseWriter, req *http.Request, status int, body []byte) {
	if status == http.StatusOK {
		tag := etag(body)
		w.Header().Set("ETag", tag)
		w.Header().Set("Cache-Control", "no-cache")
		if etagMatch(req.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func etag(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
}

// etagMatch reports whether an If-None-Match header matches tag, using weak
// comparison.
func etagMatch(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}
