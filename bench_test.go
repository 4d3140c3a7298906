package trdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// benchSource writes a catalogue of n rows spread over twenty years.
func benchSource(b *testing.B, n int) *Source {
	b.Helper()
	var sb strings.Builder
	sb.WriteString(testHeader + "\r\n")
	for i := range n {
		fmt.Fprintf(&sb, "%d,%d,\"電源回路 %d\",\"amp filter\",A,%d,4,\"Author %d\"\r\n",
			1990+i%20, 1+i%12, i, 1+i%90, i%300)
	}
	enc, err := EncodeShiftJIS([]byte(sb.String()))
	if err != nil {
		b.Fatal(err)
	}
	path := filepath.Join(b.TempDir(), "TR.txt")
	if err := os.WriteFile(path, enc, 0644); err != nil {
		b.Fatal(err)
	}
	return NewSource(path, Config{})
}

func BenchmarkSearchAll(b *testing.B) {
	src := benchSource(b, 10000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src.Search(ctx, Query{Limit: DefaultLimit})
	}
}

func BenchmarkSearchKeyword(b *testing.B) {
	src := benchSource(b, 10000)
	ctx := context.Background()
	q := Query{Title: "電源 & (amp | tube) & !noise", Limit: DefaultLimit}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src.Search(ctx, q)
	}
}

func BenchmarkSearchRegex(b *testing.B) {
	src := benchSource(b, 10000)
	ctx := context.Background()
	q := Query{Author: `^Author 1\d$`, AuthorMode: ModeRegex, Limit: DefaultLimit}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src.Search(ctx, q)
	}
}

func BenchmarkSearchRange(b *testing.B) {
	src := benchSource(b, 10000)
	ctx := context.Background()
	q := Query{FromYear: 2000, FromMonth: 6, ToYear: 2004, Limit: DefaultLimit}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src.Search(ctx, q)
	}
}

func BenchmarkOffsets(b *testing.B) {
	src := benchSource(b, 10000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src.Offsets(ctx, "", DefaultStart)
	}
}

func BenchmarkMatcherKeyword(b *testing.B) {
	m, _ := NewMatcher("amp & !tube", ModeKeyword, MatchOptions{WordMatch: true})
	text := "Low noise AMP design for filter banks"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match(text)
	}
}
