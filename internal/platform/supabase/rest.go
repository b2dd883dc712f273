package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const restPrefix = "/rest/v1/"

// Query builds a PostgREST request against one table.
type Query struct {
	client *Client
	table  string
	params url.Values
	single bool
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

// Select sets the returned columns, including embedded resources such as
// "*,books(title,author)".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq adds a column=eq.value filter.
func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, "eq."+fmt.Sprint(value))
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single makes the request return exactly one object. Zero or many matching
// rows produce an *Error with code PGRST116.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Get runs a read and decodes the rows (or the single object) into out.
func (q *Query) Get(ctx context.Context, out any) error {
	_, err := q.client.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   restPrefix + q.table,
		Query:  q.params,
		Header: q.header(""),
	}, out)
	return err
}

// Insert creates row. With a nil out nothing is returned by the server.
func (q *Query) Insert(ctx context.Context, row any, out any) error {
	_, err := q.client.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   restPrefix + q.table,
		Query:  q.params,
		Header: q.header(returnPreference(out)),
		Body:   row,
	}, out)
	return err
}

// Update applies patch to every row matching the filters.
func (q *Query) Update(ctx context.Context, patch any, out any) error {
	_, err := q.client.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   restPrefix + q.table,
		Query:  q.params,
		Header: q.header(returnPreference(out)),
		Body:   patch,
	}, out)
	return err
}

// Delete removes the matching rows and returns how many were deleted.
func (q *Query) Delete(ctx context.Context) (int64, error) {
	h, err := q.client.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   restPrefix + q.table,
		Query:  q.params,
		Header: q.header("return=minimal,count=exact"),
	}, nil)
	if err != nil {
		return 0, err
	}
	return parseCount(h.Get("Content-Range"))
}

func (q *Query) header(prefer string) http.Header {
	h := http.Header{}
	if prefer != "" {
		h.Set("Prefer", prefer)
	}
	if q.single {
		h.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return h
}

func returnPreference(out any) string {
	if out == nil {
		return "return=minimal"
	}
	return "return=representation"
}

// parseCount reads the total from a Content-Range header such as "0-4/5" or "*/0".
func parseCount(contentRange string) (int64, error) {
	i := strings.LastIndex(contentRange, "/")
	if i < 0 {
		return 0, fmt.Errorf("missing count in content range %q", contentRange)
	}
	total := contentRange[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("server did not report an exact count")
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse content range %q: %w", contentRange, err)
	}
	return n, nil
}
