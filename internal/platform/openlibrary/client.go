package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://openlibrary.org"
	defaultCoverURL = "https://covers.openlibrary.org"
)

// Client is a rate-limited Open Library search client. Each lookup is one
// request; nothing is retried.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	coverURL   string
	limiter    *rate.Limiter
}

func NewClient(userAgent string, rps float64, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:  userAgent,
		baseURL:    defaultBaseURL,
		coverURL:   defaultCoverURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// searchResponse is the subset of search.json used for cover lookups.
type searchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key     string `json:"key"`
		Title   string `json:"title"`
		CoverID int64  `json:"cover_i"`
	} `json:"docs"`
}

// FindCover returns the large cover image URL of the best search match for
// title and author, or "" when Open Library has no cover for it.
func (c *Client) FindCover(ctx context.Context, title, author string) (string, error) {
	q := url.Values{}
	q.Set("title", title)
	if author != "" {
		q.Set("author", author)
	}
	q.Set("fields", "key,title,cover_i")
	q.Set("limit", "5")

	var res searchResponse
	if err := c.get(ctx, c.baseURL+"/search.json?"+q.Encode(), &res); err != nil {
		return "", err
	}
	for _, doc := range res.Docs {
		if doc.CoverID > 0 {
			return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coverURL, doc.CoverID), nil
		}
	}
	return "", nil
}

// ErrThrottled is returned when a lookup would exceed the configured request rate.
var ErrThrottled = errors.New("openlibrary: rate limit reached")

// get makes a single attempt. Requests over the rate limit are refused rather
// than queued.
func (c *Client) get(ctx context.Context, endpoint string, target any) error {
	if !c.limiter.Allow() {
		return ErrThrottled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", strings.SplitN(endpoint, "?", 2)[0], err)
	}
	return nil
}
