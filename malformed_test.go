// Malformed catalogue tests.
//
// The catalogue is maintained by hand and exported from spreadsheet
// software, so stray quotes, NUL padding and blank lines all occur in
// practice. None of them may abort a scan: rows that still have two fields
// are kept, anything less is skipped.
package trdb

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestMalformedQuotes(t *testing.T) {
	src := writeSource(t,
		`2001,1,"Unclosed,"",A,1,1,"x"`,
		`2001,2,Bare "quote" inside,"",A,1,1,"y"`,
	)

	res := search(t, src, Query{Title: "bare", Limit: DefaultLimit})
	if res.Total != 1 {
		t.Fatalf("Total = %d, want 1", res.Total)
	}
	if res.Items[0].Title != `Bare "quote" inside` {
		t.Errorf("Title = %q", res.Items[0].Title)
	}
}

func TestMalformedPadding(t *testing.T) {
	src := writeSource(t,
		"  \t",
		"\x00\x002001,1,\"Foo\",\"\",A,10,5,\"Smith\"\x00",
		"",
		"\x0b",
	)

	res := search(t, src, Query{Limit: DefaultLimit})
	if got := titles(res.Items); !slices.Equal(got, []string{"Foo"}) {
		t.Errorf("items = %v, want [Foo]", got)
	}
	if res.Items[0].Year != 2001 || res.Items[0].Author != "Smith" {
		t.Errorf("record = %+v", res.Items[0])
	}
}

func TestMalformedNumbers(t *testing.T) {
	src := writeSource(t,
		`2001年,1月,"Foo","",A,x,5,"Smith"`,
		`,,"Undated","",A,1,1,"x"`,
	)

	res := search(t, src, Query{Limit: DefaultLimit})
	if res.Total != 2 {
		t.Fatalf("Total = %d, want 2", res.Total)
	}
	if res.Items[0].Year != 2001 || res.Items[0].Month != 1 {
		t.Errorf("lenient date = %d/%d", res.Items[0].Year, res.Items[0].Month)
	}
	if res.Items[1].Dated() {
		t.Error("empty date should be undated")
	}
	if res.First == nil || *res.First != (YearMonth{2001, 1}) || *res.Last != (YearMonth{2001, 1}) {
		t.Errorf("span = %v..%v, want 2001/1", res.First, res.Last)
	}
}

// TestMalformedInvalidBytes verifies that bytes that are not valid
// Shift_JIS decode to replacement characters instead of failing the scan.
func TestMalformedInvalidBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TR.txt")
	data := []byte(testHeader + "\r\n2001,1,\"A\x80\xffB\",\"\",A,1,1,\"x\"\r\n2001,2,\"C\",\"\",A,1,1,\"y\"\r\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewSource(path, Config{}).Search(context.Background(), Query{Limit: DefaultLimit})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Total)
	}
}
