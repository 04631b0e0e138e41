package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the charset process-model exports are written in.
const DefaultEncoding = "ISO-8859-1"

// DefaultDelimiter separates cells in CSV renditions of an export.
const DefaultDelimiter = ';'

// ErrUnknownEncoding is returned when ReadOptions.Encoding names no
// supported charset.
var ErrUnknownEncoding = errors.New("sheet: unknown encoding")

// ReadOptions controls how a CSV rendition of an export is decoded.
type ReadOptions struct {
	Delimiter rune   // cell separator; 0 means DefaultDelimiter
	Encoding  string // IANA charset name; "" means DefaultEncoding
}

// ReadFile opens path and decodes it with ReadCSV.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("sheet: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("sheet: %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV decodes a header-less CSV export. Rows keep their original length;
// the reader does not pad or trim them.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = DefaultDelimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows), err)
		}
		rows = append(rows, Row(rec))
	}
	return &Table{Rows: rows}, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: %q is registered but unsupported", ErrUnknownEncoding, name)
	}
	return enc, nil
}
