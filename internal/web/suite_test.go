package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"

	trdb "github.com/imenihs/TRDB-Searcher"
	"github.com/imenihs/TRDB-Searcher/internal/config"
)

const testHeader = "year,month,title,subtitle,type,start_page,page_count,author"

var testRows = []string{
	`2001,1,"Foo","",A,10,5,"Smith"`,
	`2001,2,"Bar","",A,1,3,"Jones"`,
}

// newTestConfig lays out a project root with a Shift_JIS catalogue, an
// override file and a document store holding the January 2001 issue.
func newTestConfig(t *testing.T, rows ...string) *config.Config {
	t.Helper()
	root := t.TempDir()
	conf := &config.Config{
		Root:         root,
		DataPath:     filepath.Join(root, "TRDB", "TR.txt"),
		PDFBase:      "/tr-book",
		PDFFSBase:    filepath.Join(root, "tr-book"),
		ModPath:      filepath.Join(root, "TRDB", "TRmod.txt"),
		DefaultStart: trdb.DefaultStart,
	}

	mustWrite(t, conf.ModPath, []byte("200102 3\n"))
	mustWrite(t, filepath.Join(conf.PDFFSBase, "2001", "TR200101.PDF"), []byte("%PDF-1.4 january"))

	if rows != nil {
		body := testHeader + "\r\n" + strings.Join(rows, "\r\n") + "\r\n"
		enc, err := trdb.EncodeShiftJIS([]byte(body))
		if err != nil {
			t.Fatal(err)
		}
		mustWrite(t, conf.DataPath, enc)
	}
	return conf
}

func mustWrite(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// newTestHandler returns the fully wrapped handler for conf.
func newTestHandler(conf *config.Config, authMiddleware func(http.Handler) http.Handler) (http.Handler, *Router) {
	router := NewRouter(http.NewServeMux(), conf, logr.Discard(), authMiddleware, NewMetrics())
	router.RegisterRoutes()
	return router.RegisterMiddleware(), router
}

func get(h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
