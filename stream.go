// Single-pass scanning of the catalogue file.
//
// Records streams every well-formed row in file order. The first line is a
// header and is always skipped. The file is Shift_JIS (Windows code page
// 932); decoding happens on the byte stream before line splitting, which is
// safe because no Shift_JIS trail byte collides with '\n'.
//
// Search and Export are built on Records. Neither stops once a page is full:
// Search has to count every matching row to report an exact total, and
// Export returns every match. The context is checked on each line so an
// aborted request stops the scan promptly.
package trdb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Config holds scanner tuning.
type Config struct {
	ReadBuffer  int // Initial line buffer (default 64KB)
	MaxLineSize int // Longest accepted line (default 1MB)
}

// Source is a catalogue file on disk. It holds no open handles; every scan
// opens the file afresh, so a Source is safe for concurrent use.
type Source struct {
	path   string
	config Config
}

// NewSource returns a Source for the catalogue at path.
func NewSource(path string, config Config) *Source {
	if config.ReadBuffer == 0 {
		config.ReadBuffer = 64 * 1024
	}
	if config.MaxLineSize == 0 {
		config.MaxLineSize = 1024 * 1024
	}
	return &Source{path: path, config: config}
}

// Path returns the catalogue path.
func (s *Source) Path() string {
	return s.path
}

// Name returns the catalogue file name, used in user-facing messages.
func (s *Source) Name() string {
	return filepath.Base(s.path)
}

// Check reports ErrSourceNotFound when the catalogue is missing or is not a
// regular file.
func (s *Source) Check() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSourceNotFound
		}
		return fmt.Errorf("%w: %w", ErrSourceOpen, err)
	}
	if !info.Mode().IsRegular() {
		return ErrSourceNotFound
	}
	return nil
}

// Records yields every well-formed row after the header. Blank lines and
// rows with fewer than two fields are skipped silently. Errors end the
// sequence: ErrSourceNotFound or ErrSourceOpen when the file cannot be
// opened, the context error on cancellation, or a read error.
func (s *Source) Records(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				yield(Record{}, ErrSourceNotFound)
			} else {
				yield(Record{}, fmt.Errorf("%w: %w", ErrSourceOpen, err))
			}
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(transform.NewReader(f, japanese.ShiftJIS.NewDecoder()))
		scanner.Buffer(make([]byte, s.config.ReadBuffer), s.config.MaxLineSize)

		header := true
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(Record{}, err)
				return
			}
			if header {
				header = false
				continue
			}

			ln := strings.Trim(scanner.Text(), " \t\r\n\x00\x0b")
			if ln == "" {
				continue
			}
			row, err := parseRow(ln)
			if err != nil {
				continue
			}
			rec, ok := decodeRecord(row)
			if !ok {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Record{}, fmt.Errorf("scan %s: %w", s.Name(), err))
		}
	}
}
