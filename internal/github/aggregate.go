package github

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// AggregatePullRequest builds one fully populated pull request. The detail
// fetch is mandatory; sub-resources are fetched concurrently and degrade to
// partial or empty lists on failure.
func (f *Fetcher) AggregatePullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error) {
	payload, err := f.fetchPullRequest(ctx, owner, repo, number)
	if err != nil {
		return PullRequest{}, err
	}
	pr := FormatPullRequest(payload)

	var (
		commits        []Commit
		reviews        []Review
		lineComments   []Comment
		issueComments  []Comment
		reviewRequests []ReviewRequest
	)

	// Sub-resources degrade on failure, so no goroutine returns an error
	var g errgroup.Group
	g.Go(func() error {
		commits = f.commitsWithStats(ctx, owner, repo, number)
		return nil
	})
	g.Go(func() error {
		reviews = FormatReviews(f.listReviews(ctx, owner, repo, number))
		return nil
	})
	g.Go(func() error {
		lineComments = FormatLineComments(f.listLineComments(ctx, owner, repo, number))
		return nil
	})
	g.Go(func() error {
		issueComments = FormatIssueComments(f.listIssueComments(ctx, owner, repo, number))
		return nil
	})
	g.Go(func() error {
		requested, err := f.fetchReviewRequests(ctx, owner, repo, number)
		if err != nil {
			f.log.Warnw("Skipping review requests", "repo", repo, "pr", number, "error", err)
			reviewRequests = []ReviewRequest{}
			return nil
		}
		reviewRequests = FormatReviewRequests(requested)
		return nil
	})
	g.Wait()

	if err := ctx.Err(); err != nil {
		return PullRequest{}, err
	}

	pr.Commits = commits
	pr.Reviews = reviews
	pr.Comments = ReconcileComments(lineComments, issueComments, reviews)
	pr.ReviewRequests = reviewRequests
	return pr, nil
}

// commitsWithStats lists the commits of a pull request and looks up the
// line statistics of each. A failed lookup leaves that commit's Stats nil.
func (f *Fetcher) commitsWithStats(ctx context.Context, owner, repo string, number int) []Commit {
	raw := f.listCommits(ctx, owner, repo, number)

	commits := make([]Commit, 0, len(raw))
	for _, c := range raw {
		if c == nil {
			continue
		}
		commits = append(commits, FormatCommit(c))
	}

	var g errgroup.Group
	g.SetLimit(f.commitStatsLimit)
	for i := range commits {
		g.Go(func() error {
			stats, err := f.fetchCommitStats(ctx, owner, repo, commits[i].SHA)
			if err != nil {
				f.log.Warnw("Commit stats unavailable", "repo", repo, "pr", number, "sha", commits[i].SHA, "error", err)
				return nil
			}
			commits[i].Stats = FormatCommitStats(stats)
			return nil
		})
	}
	g.Wait()

	return commits
}
