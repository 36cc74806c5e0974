package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v39/github"
	"golang.org/x/oauth2"
)

// Transport issues a single live API call and returns the decoded body
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values) (json.RawMessage, error)
}

// GitHubClient is the live Transport backed by go-github
type GitHubClient struct {
	client  *github.Client
	timeout time.Duration
}

// NewGitHubClient creates a client authenticated with a static token.
// baseURL is optional and points the client at a GitHub Enterprise API root.
func NewGitHubClient(token, baseURL string, timeout time.Duration) (*GitHubClient, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	client := github.NewClient(tc)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}

	return &GitHubClient{
		client:  client,
		timeout: timeout,
	}, nil
}

// Do performs one request. Each call is bounded by the client's timeout.
func (c *GitHubClient) Do(ctx context.Context, method, path string, query url.Values) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := c.client.NewRequest(method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var body json.RawMessage
	if _, err := c.client.Do(ctx, req, &body); err != nil {
		return nil, err
	}

	return body, nil
}
