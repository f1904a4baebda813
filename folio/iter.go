package folio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Iterator walks a paginated FOLIO result set lazily. It issues one GET per
// page with a fixed limit and an increasing offset, and yields records in
// the order the server reports them. An iterator is finite, non-restartable
// and can be abandoned at any point without leaking the connection, which is
// owned by the client.
//
// Usage follows the sql.Rows pattern:
//
//	it := client.Iter(ctx, "/users", "users", "active==true", 0)
//	for it.Next() {
//		var user User
//		if err := it.Decode(&user); err != nil {
//			return err
//		}
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
type Iterator struct {
	client *Client
	ctx    context.Context

	path  string
	key   string
	query string
	limit int

	offset int
	total  int
	page   []json.RawMessage
	pos    int
	last   bool
	done   bool
	err    error
}

// Iter creates an iterator over the records found under key in the paginated
// documents at path. The CQL query is passed through verbatim. A limit of
// zero uses the client's page size; a negative limit is invalid.
func (c *Client) Iter(ctx context.Context, path, key, query string, limit int) *Iterator {
	it := &Iterator{
		client: c,
		ctx:    ctx,
		path:   path,
		key:    key,
		query:  query,
		limit:  limit,
	}
	if limit == 0 {
		it.limit = c.pageSize
	}
	if limit < 0 {
		it.err = fmt.Errorf("folio: iterator limit must be positive")
		it.done = true
	}
	return it
}

// Next advances to the next record, fetching the next page when the current
// one is drained. It returns false when the result set is exhausted or an
// error occurred; consult Err afterwards.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if it.pos < len(it.page) {
		it.pos++
		it.total++
		return true
	}
	// A short page means the server has no more records; stop without
	// issuing another request.
	if it.last && it.page != nil {
		it.stop()
		return false
	}
	if err := it.fetchPage(); err != nil {
		it.err = err
		it.stop()
		return false
	}
	if len(it.page) == 0 {
		it.stop()
		return false
	}
	it.pos = 1
	it.total++
	return true
}

// Record returns the record Next advanced to, valid until the next call to
// Next.
func (it *Iterator) Record() json.RawMessage {
	if it.pos == 0 || it.pos > len(it.page) {
		return nil
	}
	return it.page[it.pos-1]
}

// Decode unmarshals the current record into v.
func (it *Iterator) Decode(v any) error {
	record := it.Record()
	if record == nil {
		return fmt.Errorf("folio: no current record")
	}
	return json.Unmarshal(record, v)
}

// Count returns the number of records yielded so far.
func (it *Iterator) Count() int {
	return it.total
}

// Err returns the error that terminated iteration, if any. Exhaustion is not
// an error; neither is a page without the expected key, which simply ends
// the sequence.
func (it *Iterator) Err() error {
	return it.err
}

// fetchPage retrieves the next page and extracts the record array at key. A
// missing key is treated as an empty page.
func (it *Iterator) fetchPage() error {
	params := url.Values{}
	if it.query != "" {
		params.Set("query", it.query)
	}
	params.Set("limit", strconv.Itoa(it.limit))
	params.Set("offset", strconv.Itoa(it.offset))

	body, err := it.client.do(it.ctx, http.MethodGet, it.path, params, nil)
	if err != nil {
		return err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("folio: failed to decode page: %w", err)
	}

	it.page = nil
	it.pos = 0
	raw, ok := doc[it.key]
	if !ok || string(raw) == "null" {
		it.page = []json.RawMessage{}
		it.last = true
		return nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("folio: unexpected format under key %q: %w", it.key, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}

	it.page = records
	it.offset += len(records)
	it.last = len(records) < it.limit

	it.client.logger.Debug().
		Str("path", it.path).
		Int("count", len(records)).
		Int("offset", it.offset).
		Msg("fetched page")
	return nil
}

// stop marks the iterator exhausted so no further requests are issued.
func (it *Iterator) stop() {
	it.done = true
	it.page = nil
	it.pos = 0
}

// collect drains an iterator, decoding every record into a slice of T.
func collect[T any](it *Iterator) ([]T, error) {
	var out []T
	for it.Next() {
		var v T
		if err := it.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
