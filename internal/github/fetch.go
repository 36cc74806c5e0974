package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/reillywatson/prsnapshot/internal/cache"
	"go.uber.org/zap"
)

// Endpoint templates of the REST API
const (
	endpointOrgRepos           = "/orgs/{org}/repos"
	endpointPullRequests       = "/repos/{owner}/{repo}/pulls"
	endpointPullRequest        = "/repos/{owner}/{repo}/pulls/{pull_number}"
	endpointPullCommits        = "/repos/{owner}/{repo}/pulls/{pull_number}/commits"
	endpointCommit             = "/repos/{owner}/{repo}/commits/{ref}"
	endpointPullReviews        = "/repos/{owner}/{repo}/pulls/{pull_number}/reviews"
	endpointPullComments       = "/repos/{owner}/{repo}/pulls/{pull_number}/comments"
	endpointIssueComments      = "/repos/{owner}/{repo}/issues/{issue_number}/comments"
	endpointRequestedReviewers = "/repos/{owner}/{repo}/pulls/{pull_number}/requested_reviewers"
)

// Cache lifetimes per endpoint; the PR list changes fastest.
var (
	ttlRepositories      = cache.Days(7)
	ttlPullRequestList   = cache.Days(3)
	ttlPullRequestDetail = cache.Days(7)
)

// Visibility filters
const (
	VisibilityAll     = "all"
	VisibilityPrivate = "private"
)

// WindowField selects the timestamp that places a pull request in the window.
type WindowField string

const (
	WindowCreated WindowField = "created"
	WindowUpdated WindowField = "updated"
)

// DefaultCommitStatsLimit is the number of commit stats lookups run at once
// for a pull request unless configured otherwise.
const DefaultCommitStatsLimit = 5

// Requester performs one cached, rate-limited API call
type Requester interface {
	Request(ctx context.Context, req Request) (json.RawMessage, error)
}

// Fetcher retrieves organization data through a Requester
type Fetcher struct {
	client           Requester
	log              *zap.SugaredLogger
	commitStatsLimit int
}

// NewFetcher creates a Fetcher over client
func NewFetcher(client Requester, log *zap.SugaredLogger) *Fetcher {
	return &Fetcher{
		client:           client,
		log:              log,
		commitStatsLimit: DefaultCommitStatsLimit,
	}
}

// SetCommitStatsLimit bounds the per-commit stats lookups in flight for one
// pull request. Values below 1 mean one at a time.
func (f *Fetcher) SetCommitStatsLimit(n int) {
	f.commitStatsLimit = max(n, 1)
}

// ListRepositories fetches every repository of org matching visibility
func (f *Fetcher) ListRepositories(ctx context.Context, org, visibility string) []Repository {
	repoType := "all"
	if visibility == VisibilityPrivate {
		repoType = "private"
	}
	params := map[string]any{"org": org, "type": repoType}

	raw := listPages[*github.Repository](ctx, f, "repositories", endpointOrgRepos, params, ttlRepositories, nil)

	repos := make([]Repository, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		repo := FormatRepository(r)
		if visibility == VisibilityPrivate && repo.Visibility != VisibilityPrivate {
			continue
		}
		if repo.Owner == "" {
			repo.Owner = org
		}
		repos = append(repos, repo)
	}
	return repos
}

// ListPullRequests returns the numbers of the pull requests of a repository
// whose window field is at or after cutoff. The listing is sorted newest
// first on the same field, so pagination stops at the first page reaching
// past the cutoff.
func (f *Fetcher) ListPullRequests(ctx context.Context, owner, repo string, cutoff time.Time, field WindowField) []int {
	// List pages decode into the tolerant payload so one odd label cannot
	// fail a whole page.
	timeOf := func(pr *pullRequestPayload) time.Time {
		if pr == nil {
			return time.Time{}
		}
		if field == WindowUpdated {
			return pr.GetUpdatedAt()
		}
		return pr.GetCreatedAt()
	}

	params := map[string]any{
		"owner":     owner,
		"repo":      repo,
		"state":     "all",
		"sort":      string(field),
		"direction": "desc",
	}
	resource := fmt.Sprintf("pull requests of %s/%s", owner, repo)
	prs := listPages(ctx, f, resource, endpointPullRequests, params, ttlPullRequestList, CutoffStop(cutoff, timeOf))

	numbers := make([]int, 0, len(prs))
	for _, pr := range prs {
		if pr == nil {
			continue
		}
		numbers = append(numbers, pr.GetNumber())
	}
	return numbers
}

func (f *Fetcher) fetchPullRequest(ctx context.Context, owner, repo string, number int) (*pullRequestPayload, error) {
	body, err := f.client.Request(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: endpointPullRequest,
		Params:   map[string]any{"owner": owner, "repo": repo, "pull_number": number},
		TTL:      ttlPullRequestDetail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request #%d: %w", number, err)
	}
	pr, err := decode[*pullRequestPayload](body, "pull request")
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("pull request #%d: empty response", number)
	}
	return pr, nil
}

func (f *Fetcher) listCommits(ctx context.Context, owner, repo string, number int) []*github.RepositoryCommit {
	params := map[string]any{"owner": owner, "repo": repo, "pull_number": number}
	return listPages[*github.RepositoryCommit](ctx, f, fmt.Sprintf("commits of #%d", number), endpointPullCommits, params, ttlPullRequestDetail, nil)
}

func (f *Fetcher) fetchCommitStats(ctx context.Context, owner, repo, sha string) (*github.CommitStats, error) {
	body, err := f.client.Request(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: endpointCommit,
		Params:   map[string]any{"owner": owner, "repo": repo, "ref": sha},
		TTL:      ttlPullRequestDetail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commit %s: %w", sha, err)
	}
	commit, err := decode[*github.RepositoryCommit](body, "commit")
	if err != nil {
		return nil, err
	}
	return commit.GetStats(), nil
}

func (f *Fetcher) listReviews(ctx context.Context, owner, repo string, number int) []*github.PullRequestReview {
	params := map[string]any{"owner": owner, "repo": repo, "pull_number": number}
	return listPages[*github.PullRequestReview](ctx, f, fmt.Sprintf("reviews of #%d", number), endpointPullReviews, params, ttlPullRequestDetail, nil)
}

func (f *Fetcher) listLineComments(ctx context.Context, owner, repo string, number int) []*github.PullRequestComment {
	params := map[string]any{"owner": owner, "repo": repo, "pull_number": number}
	return listPages[*github.PullRequestComment](ctx, f, fmt.Sprintf("review comments of #%d", number), endpointPullComments, params, ttlPullRequestDetail, nil)
}

func (f *Fetcher) listIssueComments(ctx context.Context, owner, repo string, number int) []*github.IssueComment {
	params := map[string]any{"owner": owner, "repo": repo, "issue_number": number}
	return listPages[*github.IssueComment](ctx, f, fmt.Sprintf("issue comments of #%d", number), endpointIssueComments, params, ttlPullRequestDetail, nil)
}

func (f *Fetcher) fetchReviewRequests(ctx context.Context, owner, repo string, number int) (*github.Reviewers, error) {
	body, err := f.client.Request(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: endpointRequestedReviewers,
		Params:   map[string]any{"owner": owner, "repo": repo, "pull_number": number},
		TTL:      ttlPullRequestDetail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review requests of #%d: %w", number, err)
	}
	return decode[*github.Reviewers](body, "requested reviewers")
}

// listPages paginates a GET list endpoint with the standard page size
func listPages[T any](ctx context.Context, f *Fetcher, resource, endpoint string, params map[string]any, ttl time.Duration, stop StopFunc[T]) []T {
	fetch := func(ctx context.Context, page int) ([]T, error) {
		p := make(map[string]any, len(params)+2)
		for k, v := range params {
			p[k] = v
		}
		p["page"] = page
		p["per_page"] = perPage

		body, err := f.client.Request(ctx, Request{
			Method:   http.MethodGet,
			Endpoint: endpoint,
			Params:   p,
			TTL:      ttl,
		})
		if err != nil {
			return nil, err
		}
		return decode[[]T](body, resource)
	}
	return Paginate(ctx, f.log, resource, fetch, stop)
}
