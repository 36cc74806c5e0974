package github

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// fakeRequester serves canned bodies keyed by expanded path and query.
// Unknown requests get "null", which reads as an empty page.
type fakeRequester struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{
		responses: map[string]string{},
		errs:      map[string]error{},
	}
}

func (f *fakeRequester) Request(ctx context.Context, req Request) (json.RawMessage, error) {
	path, query := expandEndpoint(req.Endpoint, req.Params)
	key := path
	if q := query.Encode(); q != "" {
		key += "?" + q
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)

	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if body, ok := f.responses[key]; ok {
		return json.RawMessage(body), nil
	}
	return json.RawMessage("null"), nil
}

func (f *fakeRequester) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

// listPage is the key of page n of a plain list endpoint.
func listPage(path string, n int) string {
	return fmt.Sprintf("%s?page=%d&per_page=100", path, n)
}
