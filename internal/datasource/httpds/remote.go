package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Remote is a datasource.Source served at a URL.
type Remote struct {
	url    string
	client *Client
}

// NewRemote binds url to client. A nil client uses NewClient(Config{}).
func NewRemote(url string, client *Client) *Remote {
	if client == nil {
		client = NewClient(Config{})
	}
	return &Remote{url: url, client: client}
}

// URL returns the address the source reads.
func (r *Remote) URL() string { return r.url }

// Open issues the GET and returns the response body. A 404 or 410 satisfies
// errors.Is(err, os.ErrNotExist); any other non-2xx status is an error.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.client.Get(ctx, r.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp.Body, nil
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, fmt.Errorf("get %s: %w", r.url, os.ErrNotExist)
	}
	return nil, fmt.Errorf("get %s: status %d", r.url, resp.StatusCode)
}

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
