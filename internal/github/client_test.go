package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme/repos", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `[{"id": 1, "name": "widgets", "owner": {"login": "acme"}}]`)
	}))
	defer server.Close()

	client, err := NewGitHubClient("test-token", server.URL, 5*time.Second)
	require.NoError(t, err)

	body, err := client.Do(context.Background(), http.MethodGet, "/orgs/acme/repos", url.Values{"page": {"2"}})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 1, "name": "widgets", "owner": {"login": "acme"}}]`, string(body))
}

func TestGitHubClient_RateLimitResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprintln(w, `{"message": "API rate limit exceeded for 127.0.0.1."}`)
	}))
	defer server.Close()

	client, err := NewGitHubClient("test-token", server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/orgs/acme/repos", nil)

	require.Error(t, err)
	var rateLimit *github.RateLimitError
	assert.True(t, errors.As(err, &rateLimit), "expected a RateLimitError, got %T", err)
	assert.Equal(t, retryPrimary, classifyRetry(err))
}

func TestGitHubClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, `{"message": "Not Found"}`)
	}))
	defer server.Close()

	client, err := NewGitHubClient("test-token", server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/repos/acme/missing/pulls/1", nil)

	require.Error(t, err)
	var ghErr *github.ErrorResponse
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, http.StatusNotFound, ghErr.Response.StatusCode)
	assert.Equal(t, noRetry, classifyRetry(err))
}

func TestGitHubClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewGitHubClient("test-token", server.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/orgs/acme/repos", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
