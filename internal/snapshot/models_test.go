package snapshot

import (
	"testing"
	"time"

	"github.com/reillywatson/prsnapshot/internal/github"
	"github.com/stretchr/testify/assert"
)

func TestSummary_Add(t *testing.T) {
	merged := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	result := RepoResult{
		PullRequests: []github.PullRequest{
			{State: "open", Additions: 1, Deletions: 2, ChangedFiles: 3, Commits: make([]github.Commit, 2), Comments: make([]github.Comment, 1)},
			{State: "closed", MergedAt: &merged, Reviews: make([]github.Review, 3)},
			{State: "closed", ReviewRequests: make([]github.ReviewRequest, 1)},
		},
	}

	start := Summary{TotalRepositories: 4, TotalPullRequests: 10}
	got := start.Add(result)

	assert.Equal(t, Summary{
		TotalRepositories:   5,
		TotalPullRequests:   13,
		OpenPullRequests:    1,
		ClosedPullRequests:  1,
		MergedPullRequests:  1,
		TotalCommits:        2,
		TotalComments:       1,
		TotalReviews:        3,
		TotalReviewRequests: 1,
		TotalAdditions:      1,
		TotalDeletions:      2,
		TotalChangedFiles:   3,
	}, got)
	assert.Equal(t, Summary{TotalRepositories: 4, TotalPullRequests: 10}, start, "Add must not modify the receiver")
}

func TestSummary_AddEmptyRepository(t *testing.T) {
	got := Summary{}.Add(RepoResult{PullRequests: []github.PullRequest{}})

	assert.Equal(t, Summary{TotalRepositories: 1}, got)
}
