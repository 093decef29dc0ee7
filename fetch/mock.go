package fetch

import (
	"context"
	"errors"
	"sync"
)

// ErrUnreachable is returned by MockFetcher for URLs in its Fail list,
// simulating a network or TLS failure with no HTTP response.
var ErrUnreachable = errors.New("fetch: host unreachable")

// MockFetcher is a Fetcher used for testing. It serves canned responses
// and counts calls per URL.
type MockFetcher struct {
	// Responses maps URLs to the result returned for them.
	Responses map[string]Result

	// Fail contains URLs that return ErrUnreachable.
	Fail []string

	mu    sync.Mutex
	calls map[string]int
}

var _ Fetcher = (*MockFetcher)(nil)

// Get returns the canned response for the URL. URLs with no configured
// response return a 404.
func (f *MockFetcher) Get(ctx context.Context, url string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[url]++
	f.mu.Unlock()

	for _, u := range f.Fail {
		if u == url {
			return nil, ErrUnreachable
		}
	}

	if r, ok := f.Responses[url]; ok {
		return &r, nil
	}
	return &Result{StatusCode: 404}, nil
}

// Calls returns how many times the given URL was fetched.
func (f *MockFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// TotalCalls returns how many fetches were made in total.
func (f *MockFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}
