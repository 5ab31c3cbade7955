package fetcher

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Row maps a column name to its raw string value.
type Row map[string]string

// Get returns the value of col and whether the row has that column.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Table is a parsed tabular source: the header and its rows in file order.
type Table struct {
	Source string
	Header []string
	Rows   []Row
}

// HasColumn reports whether the header contains col.
func (t *Table) HasColumn(col string) bool {
	for _, h := range t.Header {
		if h == col {
			return true
		}
	}
	return false
}

// RequireColumns returns an error naming the first column missing from the header.
func (t *Table) RequireColumns(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return eris.Errorf("table %s: missing required column %q", t.Source, c)
		}
	}
	return nil
}

// TableLoader loads a tabular resource into a Table.
type TableLoader interface {
	LoadTable(ctx context.Context, locator string) (*Table, error)
}

// TableOptions configures how delimited and spreadsheet sources are parsed.
type TableOptions struct {
	Delimiter rune   // default ',' (and '\t' for .tsv)
	Comment   rune   // delimited lines starting with this rune are skipped
	TrimSpace bool   // trim whitespace around every delimited field
	Charset   string // source encoding, default utf-8
	Sheet     string // XLSX worksheet name, default the first sheet
	TempDir   string // where remote XLSX files are staged
}

// Loader implements TableLoader on top of an Opener.
type Loader struct {
	opener *Opener
	opts   TableOptions
}

// NewLoader creates a Loader.
func NewLoader(opener *Opener, opts TableOptions) *Loader {
	return &Loader{opener: opener, opts: opts}
}

// LoadTable fetches locator and parses it according to its extension:
// .xlsx sheets, .json arrays of objects, and delimited text otherwise.
// The first row is the header; every later row becomes a Row keyed by it.
func (l *Loader) LoadTable(ctx context.Context, locator string) (*Table, error) {
	log := zap.L().With(zap.String("source", locator))

	var records [][]string
	var err error
	switch Ext(locator) {
	case ".xlsx":
		records, err = l.readXLSX(ctx, locator)
	case ".json":
		records, err = l.readJSON(ctx, locator)
	default:
		records, err = l.readDelimited(ctx, locator)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("table %s: no header row", locator)
	}

	table := buildTable(locator, records)
	log.Debug("fetcher: loaded table",
		zap.Int("columns", len(table.Header)),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}

func (l *Loader) readDelimited(ctx context.Context, locator string) ([][]string, error) {
	body, err := l.opener.Open(ctx, locator)
	if err != nil {
		return nil, eris.Wrapf(err, "table %s: open", locator)
	}
	defer body.Close() //nolint:errcheck

	r, err := decodeCharset(body, l.opts.Charset)
	if err != nil {
		return nil, err
	}

	delim := l.opts.Delimiter
	if delim == 0 && Ext(locator) == ".tsv" {
		delim = '\t'
	}

	rowCh, errCh := StreamCSV(ctx, r, CSVOptions{
		Delimiter:  delim,
		Comment:    l.opts.Comment,
		LazyQuotes: true,
		TrimSpace:  l.opts.TrimSpace,
	})
	var records [][]string
	for row := range rowCh {
		records = append(records, row)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrapf(err, "table %s: parse", locator)
	}
	return records, nil
}

func (l *Loader) readJSON(ctx context.Context, locator string) ([][]string, error) {
	body, err := l.opener.Open(ctx, locator)
	if err != nil {
		return nil, eris.Wrapf(err, "table %s: open", locator)
	}
	defer body.Close() //nolint:errcheck

	records, err := jsonRecords(ctx, body)
	if err != nil {
		return nil, eris.Wrapf(err, "table %s: parse", locator)
	}
	return records, nil
}

func (l *Loader) readXLSX(ctx context.Context, locator string) ([][]string, error) {
	dir := l.opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	staging, err := os.MkdirTemp(dir, "table-*")
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: create staging dir")
	}
	defer os.RemoveAll(staging) //nolint:errcheck

	path, err := l.opener.LocalPath(ctx, locator, staging)
	if err != nil {
		return nil, eris.Wrapf(err, "table %s: open", locator)
	}
	records, err := ReadXLSX(path, XLSXOptions{SheetName: l.opts.Sheet})
	if err != nil {
		return nil, eris.Wrapf(err, "table %s: parse", locator)
	}
	return records, nil
}

// buildTable keys each record by the header. Short records leave the
// missing columns absent; extra fields are dropped.
func buildTable(source string, records [][]string) *Table {
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return &Table{Source: source, Header: header, Rows: rows}
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
