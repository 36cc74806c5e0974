package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/reillywatson/prsnapshot/internal/batch"
	"github.com/reillywatson/prsnapshot/internal/github"
	"go.uber.org/zap"
)

// Source provides the organization data a snapshot is built from
type Source interface {
	ListRepositories(ctx context.Context, org, visibility string) []github.Repository
	ListPullRequests(ctx context.Context, owner, repo string, cutoff time.Time, field github.WindowField) []int
	AggregatePullRequest(ctx context.Context, owner, repo string, number int) (github.PullRequest, error)
}

// Settings control how the assembler walks the organization
type Settings struct {
	Visibility  string
	WindowField github.WindowField
	// Concurrency is the number of pull requests aggregated at once; 1 is
	// sequential.
	Concurrency int
	// FailFast makes a failed pull request fail the run instead of being
	// skipped.
	FailFast bool
}

// Options describe a single run
type Options struct {
	Org  string
	Days int
	Now  time.Time
}

// Assembler builds snapshots from a Source
type Assembler struct {
	source   Source
	log      *zap.SugaredLogger
	settings Settings
}

// NewAssembler creates an Assembler
func NewAssembler(source Source, log *zap.SugaredLogger, settings Settings) *Assembler {
	if settings.Visibility == "" {
		settings.Visibility = github.VisibilityAll
	}
	if settings.WindowField == "" {
		settings.WindowField = github.WindowCreated
	}
	return &Assembler{source: source, log: log, settings: settings}
}

// Run ingests every repository of the organization within the trailing
// window of opts.Days and returns the resulting snapshot.
func (a *Assembler) Run(ctx context.Context, opts Options) (Snapshot, error) {
	if opts.Days <= 0 {
		return Snapshot{}, fmt.Errorf("days must be positive, got %d", opts.Days)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	cutoff := now.Add(-time.Duration(opts.Days) * 24 * time.Hour)

	snap := Snapshot{
		Organization: opts.Org,
		GeneratedAt:  now,
		Since:        cutoff,
		Days:         opts.Days,
		Repositories: map[string]RepoEntry{},
	}

	repos := a.source.ListRepositories(ctx, opts.Org, a.settings.Visibility)
	a.log.Infow("Fetched repositories",
		"organization", opts.Org,
		"visibility", a.settings.Visibility,
		"count", len(repos),
	)

	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}

		result, err := a.processRepository(ctx, repo, cutoff)
		if err != nil {
			return Snapshot{}, fmt.Errorf("repository %s: %w", repo.FullName, err)
		}

		snap.Repositories[repo.Name] = result
		snap.Summary = snap.Summary.Add(result)

		a.log.Infow("Processed repository",
			"repository", repo.FullName,
			"pull_requests", len(result.PullRequests),
			"progress", fmt.Sprintf("%d/%d", i+1, len(repos)),
		)
	}

	return snap, nil
}

func (a *Assembler) processRepository(ctx context.Context, repo github.Repository, cutoff time.Time) (RepoResult, error) {
	numbers := a.source.ListPullRequests(ctx, repo.Owner, repo.Name, cutoff, a.settings.WindowField)

	aggregate := func(ctx context.Context, number int) (github.PullRequest, error) {
		return a.source.AggregatePullRequest(ctx, repo.Owner, repo.Name, number)
	}

	result := RepoResult{Repository: repo, PullRequests: []github.PullRequest{}}
	if len(numbers) == 0 {
		return result, nil
	}

	if a.settings.FailFast {
		prs, err := batch.Run(ctx, numbers, a.settings.Concurrency, aggregate)
		if err != nil {
			return RepoResult{}, err
		}
		result.PullRequests = prs
		return result, nil
	}

	for i, outcome := range batch.RunIsolated(ctx, numbers, a.settings.Concurrency, aggregate) {
		if outcome.Err != nil {
			if ctx.Err() != nil {
				return RepoResult{}, ctx.Err()
			}
			a.log.Warnw("Skipping pull request",
				"repository", repo.FullName,
				"number", numbers[i],
				"error", outcome.Err,
			)
			continue
		}
		result.PullRequests = append(result.PullRequests, outcome.Value)
	}
	return result, nil
}
