package github

import (
	"slices"
	"time"
)

// PullRequestMetric holds review latency figures for one pull request
type PullRequestMetric struct {
	Repository        string
	PRNumber          int
	PRTitle           string
	Author            string
	HasReview         bool
	FirstReviewer     string
	FirstReviewState  string
	TimeToFirstReview time.Duration
	Approver          string
	TimeToApproval    time.Duration
	TimeSinceCreation time.Duration
}

// ReviewMetrics computes review latency for the pull requests of a
// repository as of now. Drafts, closed pull requests that were not merged and
// authors on the denylist are skipped.
func ReviewMetrics(repository string, prs []PullRequest, denylist []string, now time.Time) []PullRequestMetric {
	var results []PullRequestMetric

	for _, pr := range prs {
		// Skip draft PRs
		if pr.Draft {
			continue
		}

		// Skip closed PRs that weren't merged
		if pr.State == "closed" && !pr.Merged() {
			continue
		}

		author := pr.User.Login
		if slices.Contains(denylist, author) {
			continue
		}

		metric := PullRequestMetric{
			Repository:        repository,
			PRNumber:          pr.Number,
			PRTitle:           pr.Title,
			Author:            author,
			TimeSinceCreation: now.Sub(pr.CreatedAt),
		}

		var firstReviewTime, firstApprovalTime *time.Time
		for _, review := range pr.Reviews {
			reviewer := review.User.Login
			// Skip pending reviews, self-reviews and reviews without a submission time
			if review.State == "PENDING" || reviewer == author || review.SubmittedAt == nil {
				continue
			}
			if slices.Contains(denylist, reviewer) {
				continue
			}

			submittedAt := *review.SubmittedAt
			metric.HasReview = true

			if firstReviewTime == nil || submittedAt.Before(*firstReviewTime) {
				firstReviewTime = &submittedAt
				metric.FirstReviewer = reviewer
				metric.FirstReviewState = review.State
			}

			if review.State == "APPROVED" {
				if firstApprovalTime == nil || submittedAt.Before(*firstApprovalTime) {
					firstApprovalTime = &submittedAt
					metric.Approver = reviewer
				}
			}
		}

		if firstReviewTime != nil {
			metric.TimeToFirstReview = firstReviewTime.Sub(pr.CreatedAt)
		}
		if firstApprovalTime != nil {
			metric.TimeToApproval = firstApprovalTime.Sub(pr.CreatedAt)
		}

		results = append(results, metric)
	}

	return results
}

// Median returns the median of durations, sorting them in place
func Median(durations []time.Duration) time.Duration {
	n := len(durations)
	if n == 0 {
		return 0
	}

	slices.Sort(durations)

	if n%2 != 0 {
		return durations[n/2]
	}
	return (durations[(n/2)-1] + durations[n/2]) / 2
}
