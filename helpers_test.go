package trdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testHeader = "year,month,title,subtitle,type,start_page,page_count,author"

// writeSource writes a Shift_JIS catalogue with the standard header followed
// by lines, and returns a Source for it.
func writeSource(t *testing.T, lines ...string) *Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TR.txt")
	body := testHeader + "\r\n" + strings.Join(lines, "\r\n") + "\r\n"
	enc, err := EncodeShiftJIS([]byte(body))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, enc, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return NewSource(path, Config{})
}

// sample is the two-row catalogue used across search tests.
var sample = []string{
	`2001,1,"Foo","",A,10,5,"Smith"`,
	`2001,2,"Bar","",A,1,3,"Jones"`,
}

func search(t *testing.T, src *Source, q Query) *Result {
	t.Helper()
	res, err := src.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	return res
}

func titles(items []Record) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.Title
	}
	return out
}
