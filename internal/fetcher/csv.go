package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // lines starting with this rune are skipped; 0 disables
	LazyQuotes bool
	TrimSpace  bool // trim surrounding whitespace from every field
}

const utf8BOM = "\uFEFF"

// StreamCSV parses delimited text on a goroutine and sends every record,
// header included, on the returned row channel. The caller must drain the
// row channel. At most one error is sent on the error channel; both channels
// are closed when parsing stops. A leading UTF-8 BOM is stripped.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.Comment = opts.Comment
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	go func() {
		defer close(rowCh)
		defer close(errCh)

		for n := 0; ; n++ {
			if err := ctx.Err(); err != nil {
				errCh <- eris.Wrap(err, "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrapf(err, "csv: read row %d", n+1)
				return
			}
			cleanRecord(record, n == 0, opts.TrimSpace)

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

func cleanRecord(record []string, first, trim bool) {
	if first && len(record) > 0 {
		record[0] = strings.TrimPrefix(record[0], utf8BOM)
	}
	if !trim {
		return
	}
	for i, f := range record {
		record[i] = strings.TrimSpace(f)
	}
}
