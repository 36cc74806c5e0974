// Package snapshot assembles organization pull request activity into one
// point-in-time document and persists it.
package snapshot

import (
	"time"

	"github.com/reillywatson/prsnapshot/internal/github"
)

// Snapshot is the complete artifact of one ingestion run.
type Snapshot struct {
	Organization string               `json:"organization"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Since        time.Time            `json:"since"`
	Days         int                  `json:"days"`
	Repositories map[string]RepoEntry `json:"repositories"`
	Summary      Summary              `json:"summary"`
}

// RepoEntry is a repository with the pull requests of the window.
type RepoEntry struct {
	Repository   github.Repository    `json:"repository"`
	PullRequests []github.PullRequest `json:"pull_requests"`
}

// RepoResult is the completed ingestion of one repository.
type RepoResult = RepoEntry

// Summary holds organization-wide totals.
type Summary struct {
	TotalRepositories   int `json:"total_repositories"`
	TotalPullRequests   int `json:"total_pull_requests"`
	OpenPullRequests    int `json:"open_pull_requests"`
	ClosedPullRequests  int `json:"closed_pull_requests"`
	MergedPullRequests  int `json:"merged_pull_requests"`
	TotalCommits        int `json:"total_commits"`
	TotalComments       int `json:"total_comments"`
	TotalReviews        int `json:"total_reviews"`
	TotalReviewRequests int `json:"total_review_requests"`
	TotalAdditions      int `json:"total_additions"`
	TotalDeletions      int `json:"total_deletions"`
	TotalChangedFiles   int `json:"total_changed_files"`
}

// Add returns the summary with result folded in. The receiver is not
// modified. Closed counts only pull requests closed without merging, so
// open, closed and merged partition the total.
func (s Summary) Add(result RepoResult) Summary {
	s.TotalRepositories++
	for _, pr := range result.PullRequests {
		s.TotalPullRequests++
		switch {
		case pr.Merged():
			s.MergedPullRequests++
		case pr.State == "open":
			s.OpenPullRequests++
		case pr.State == "closed":
			s.ClosedPullRequests++
		}
		s.TotalCommits += len(pr.Commits)
		s.TotalComments += len(pr.Comments)
		s.TotalReviews += len(pr.Reviews)
		s.TotalReviewRequests += len(pr.ReviewRequests)
		s.TotalAdditions += pr.Additions
		s.TotalDeletions += pr.Deletions
		s.TotalChangedFiles += pr.ChangedFiles
	}
	return s
}
