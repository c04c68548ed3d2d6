// Package tabio reads and writes the pipeline's flat tabular files. Input
// tables go through an explicit schema contract: required columns are declared
// up front and a missing column fails fast naming the file and the column.
package tabio

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Schema declares the columns an input table must carry.
type Schema struct {
	Required []string
}

// Table is a fully-loaded tabular file with column access by name.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string

	cols map[string]int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV loads a CSV file and validates it against the schema. KMA and SGIS
// exports are frequently CP949/EUC-KR encoded; files that are not valid UTF-8
// are decoded as EUC-KR before parsing.
func ReadCSV(path string, schema Schema) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabio: read %s", path)
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(bytes.NewReader(raw), korean.EUCKR.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "tabio: parse %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("tabio: %s is empty", path)
	}

	t := &Table{
		Path:   path,
		Header: records[0],
		Rows:   records[1:],
		cols:   make(map[string]int, len(records[0])),
	}
	for i, col := range t.Header {
		t.cols[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range schema.Required {
		if _, ok := t.cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, eris.Errorf("tabio: %s missing required columns: %s",
			filepath.Base(path), strings.Join(missing, ", "))
	}

	return t, nil
}

// ColumnIndex returns the index of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	idx, ok := t.cols[name]
	return idx, ok
}

// Field returns the trimmed value of a named column for the given row, or ""
// when the column is absent or the row is short.
func (t *Table) Field(row []string, name string) string {
	idx, ok := t.cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// WriteCSV writes a CSV file with the given header and rows. Output is plain
// UTF-8 with \n line endings so identical inputs produce byte-identical files.
func WriteCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "tabio: mkdir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "tabio: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrapf(err, "tabio: write header %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "tabio: write row %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "tabio: flush %s", path)
	}
	return f.Close()
}
