// Scanned issue lookup.
//
// Issues are stored one file per month under a per-year directory. Three
// naming schemes have been used over time and are tried in order:
//
//	{root}/{YYYY}/TR{YYYYMM}.PDF
//	{root}/{YYYY}/TR{YYYYMM}.pdf
//	{root}/{YYYY}/DPMTR{YYYYMM}_toragimmrelease.pdf
//
// Lookups go through an os.Root so that a crafted name can never escape the
// document directory.
package trdb

import (
	"fmt"
	"os"
	"path"
	"slices"
)

// Library locates scanned issues under a root directory.
type Library struct {
	dir string
}

// NewLibrary returns a Library rooted at dir. An empty dir disables lookups.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Dir returns the library root.
func (l *Library) Dir() string {
	return l.dir
}

// Candidates returns the possible file names of an issue, in lookup order.
func Candidates(year, month int) []string {
	ym := fmt.Sprintf("%04d%02d", year, month)
	return []string{
		"TR" + ym + ".PDF",
		"TR" + ym + ".pdf",
		"DPMTR" + ym + "_toragimmrelease.pdf",
	}
}

// ValidName reports whether name is one of the candidate names for the month.
func ValidName(year, month int, name string) bool {
	return slices.Contains(Candidates(year, month), name)
}

// Document is a located issue.
type Document struct {
	Name string // file name inside the year directory
	Path string // path relative to the library root
}

// Locate finds the issue for year/month. A preferred name is tried first
// when it is a valid candidate for that month.
func (l *Library) Locate(year, month int, preferred string) (Document, bool) {
	if l == nil || l.dir == "" || year <= 0 || month <= 0 {
		return Document{}, false
	}
	root, err := os.OpenRoot(l.dir)
	if err != nil {
		return Document{}, false
	}
	defer root.Close()
	return locate(root, year, month, preferred)
}

func locate(root *os.Root, year, month int, preferred string) (Document, bool) {
	names := Candidates(year, month)
	if preferred != "" && slices.Contains(names, preferred) {
		names = append([]string{preferred}, names...)
	}
	dir := fmt.Sprintf("%04d", year)
	for _, name := range names {
		rel := path.Join(dir, name)
		info, err := root.Stat(rel)
		if err == nil && info.Mode().IsRegular() {
			return Document{Name: name, Path: rel}, true
		}
	}
	return Document{}, false
}

// Open opens a located document for reading.
func (l *Library) Open(doc Document) (*os.File, error) {
	root, err := os.OpenRoot(l.dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()
	return root.Open(doc.Path)
}

// Annotation is the per-record document information returned to clients.
// The file_* fields duplicate the pdf_* ones for clients written against
// either name.
type Annotation struct {
	PDFExists  bool    `json:"pdf_exists"`
	PDFName    *string `json:"pdf_name"`
	FileExists bool    `json:"file_exists"`
	FileName   *string `json:"file_name"`
	PDFPage    *int    `json:"pdf_page,omitempty"`
}

// Item is a record together with its document annotation.
type Item struct {
	Record
	Annotation
}

// Annotate resolves documents and target pages for a page of records. The
// library root is opened once for the whole page and each month is probed
// at most once.
func (l *Library) Annotate(records []Record, offsets *OffsetTable) []Item {
	items := make([]Item, len(records))

	var root *os.Root
	if l != nil && l.dir != "" {
		if r, err := os.OpenRoot(l.dir); err == nil {
			root = r
			defer root.Close()
		}
	}

	type probe struct {
		doc Document
		ok  bool
	}
	seen := map[int]probe{}

	for i, rec := range records {
		items[i].Record = rec
		if !rec.Dated() || root == nil {
			continue
		}
		p, done := seen[rec.YM()]
		if !done {
			p.doc, p.ok = locate(root, rec.Year, rec.Month, "")
			seen[rec.YM()] = p
		}
		if !p.ok {
			continue
		}
		name := p.doc.Name
		items[i].PDFExists = true
		items[i].PDFName = &name
		items[i].FileExists = true
		items[i].FileName = &name
		if offsets != nil {
			if page, ok := offsets.TargetPage(rec); ok {
				items[i].PDFPage = &page
			}
		}
	}
	return items
}
