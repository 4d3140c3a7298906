package trdb

import (
	"slices"
	"testing"
)

func TestDecodeRecord(t *testing.T) {
	row, err := parseRow(`2001,7,"Title, with comma","Sub ""quoted""",A,12,4,"Smith"`)
	if err != nil {
		t.Fatalf("parseRow: %v", err)
	}
	rec, ok := decodeRecord(row)
	if !ok {
		t.Fatal("decodeRecord rejected a full row")
	}
	if rec.Year != 2001 || rec.Month != 7 {
		t.Errorf("date = %d/%d, want 2001/7", rec.Year, rec.Month)
	}
	if rec.Title != "Title, with comma" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Subtitle != `Sub "quoted"` {
		t.Errorf("Subtitle = %q", rec.Subtitle)
	}
	if rec.StartPage != "12" || rec.PageCount != "4" || rec.Author != "Smith" {
		t.Errorf("tail = %q %q %q", rec.StartPage, rec.PageCount, rec.Author)
	}
	if got := rec.TitleText(); got != `Title, with comma Sub "quoted"` {
		t.Errorf("TitleText = %q", got)
	}
}

// TestDecodeRecordShortRows verifies that rows with a single field are
// dropped while rows with at least two fields are padded.
func TestDecodeRecordShortRows(t *testing.T) {
	if _, ok := decodeRecord([]string{"2001"}); ok {
		t.Error("single-field row should be rejected")
	}
	rec, ok := decodeRecord([]string{"2001", "3"})
	if !ok {
		t.Fatal("two-field row should be accepted")
	}
	if rec.Title != "" || rec.Author != "" {
		t.Errorf("missing columns should be empty, got %+v", rec)
	}
	if rec.TitleText() != "" {
		t.Errorf("TitleText = %q, want empty", rec.TitleText())
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2001", 2001},
		{" 12", 12},
		{"07a", 7},
		{"abc", 0},
		{"", 0},
		{"-3", -3},
		{"+4", 4},
		{"-", 0},
	}
	for _, tt := range tests {
		if got := LeadingInt(tt.in); got != tt.want {
			t.Errorf("LeadingInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNumericPage(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"3.9", 3, true},
		{"-2", -2, true},
		{"12a", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := numericPage(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("numericPage(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRecordRow(t *testing.T) {
	rec := Record{Year: 2001, Month: 2, Title: "t", Subtitle: "s", Type: "A", StartPage: "1", PageCount: "3", Author: "a"}
	want := []string{"2001", "2", "t", "s", "A", "1", "3", "a"}
	if got := rec.Row(); !slices.Equal(got, want) {
		t.Errorf("Row = %v, want %v", got, want)
	}
	if rec.Key() != "2001-02" {
		t.Errorf("Key = %q", rec.Key())
	}
	if rec.YM() != 200102 {
		t.Errorf("YM = %d", rec.YM())
	}
}
