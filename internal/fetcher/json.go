package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"sort"

	"github.com/rotisserie/eris"
)

// DecodeJSONArray decodes a JSON array streaming, sending each element to a channel.
// Expects input in the form [{...},{...}].
// Both channels are closed when processing completes.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)

		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for decoder.More() {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}

			var item T
			if err := decoder.Decode(&item); err != nil {
				errCh <- eris.Wrap(err, "json: decode element")
				return
			}

			select {
			case outCh <- item:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}
		}

		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

// jsonRecords turns an array of flat objects into header + rows. The
// header is the sorted union of keys. Strings are unquoted, null is empty,
// and numbers keep their literal text.
func jsonRecords(ctx context.Context, r io.Reader) ([][]string, error) {
	itemCh, errCh := DecodeJSONArray[map[string]json.RawMessage](ctx, r)

	var items []map[string]json.RawMessage
	keys := make(map[string]struct{})
	for item := range itemCh {
		for k := range item {
			keys[k] = struct{}{}
		}
		items = append(items, item)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	records := make([][]string, 0, len(items)+1)
	records = append(records, header)
	for _, item := range items {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = jsonScalar(item[col])
		}
		records = append(records, rec)
	}
	return records, nil
}

func jsonScalar(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
