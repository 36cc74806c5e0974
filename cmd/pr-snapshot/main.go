package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/reillywatson/prsnapshot/internal/cache"
	"github.com/reillywatson/prsnapshot/internal/config"
	"github.com/reillywatson/prsnapshot/internal/github"
	"github.com/reillywatson/prsnapshot/internal/logger"
	"github.com/reillywatson/prsnapshot/internal/snapshot"
)

func main() {
	// Define command line flags
	forceCache := flag.Bool("force-cache", false, "Serve every request from the cache and never call the API")
	denyListStr := flag.String("exclude", "", "Comma-separated list of GitHub usernames to ignore in review statistics")

	// Parse flags
	flag.Parse()

	// Check for days argument
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: pr-snapshot [flags] <days>")
		fmt.Fprintln(os.Stderr, "Flags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	days, err := config.ParseDays(args[0])
	if err != nil {
		log.Fatalf("Invalid days argument: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var denylist []string
	if *denyListStr != "" {
		denylist = strings.Split(*denyListStr, ",")
	}

	if err := run(cfg, days, *forceCache, denylist); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, days int, forceCache bool, denylist []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logr, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logr.Sync() }()

	// Create cache
	cacheImpl, err := cache.NewFileCache(cfg.Cache.Dir, logr)
	if err != nil {
		return fmt.Errorf("error creating cache: %w", err)
	}
	defer cacheImpl.Close()

	transport, err := github.NewGitHubClient(cfg.GitHub.Token, cfg.GitHub.BaseURL, cfg.HTTP.RequestTimeout)
	if err != nil {
		return fmt.Errorf("error creating GitHub client: %w", err)
	}

	// Create a cached, rate-limited GitHub client
	client := github.NewCachedClient(transport, cacheImpl, logr, forceCache)
	fetcher := github.NewFetcher(client, logr)
	fetcher.SetCommitStatsLimit(cfg.Batch.CommitStatsLimit)

	assembler := snapshot.NewAssembler(fetcher, logr, snapshot.Settings{
		Visibility:  cfg.Pipeline.Visibility,
		WindowField: github.WindowField(cfg.Pipeline.WindowField),
		Concurrency: cfg.Concurrency(),
		FailFast:    cfg.Batch.FailFast,
	})

	logr.Infow("Starting snapshot",
		"organization", cfg.GitHub.Org,
		"days", days,
		"strategy", cfg.Pipeline.Strategy,
		"force_cache", forceCache,
	)

	snap, err := assembler.Run(ctx, snapshot.Options{Org: cfg.GitHub.Org, Days: days, Now: time.Now()})
	if err != nil {
		return fmt.Errorf("error building snapshot: %w", err)
	}

	path, err := snapshot.Write(cfg.Output.Dir, snap)
	if err != nil {
		return err
	}
	logr.Infow("Snapshot written", "path", path)

	printSnapshotSummary(snap)
	printSummaryStatistics(reviewMetrics(snap, denylist))
	return nil
}

func reviewMetrics(snap snapshot.Snapshot, denylist []string) []github.PullRequestMetric {
	var results []github.PullRequestMetric
	for name, entry := range snap.Repositories {
		results = append(results, github.ReviewMetrics(name, entry.PullRequests, denylist, snap.GeneratedAt)...)
	}
	return results
}

// printSnapshotSummary outputs the snapshot totals in a readable format
func printSnapshotSummary(snap snapshot.Snapshot) {
	s := snap.Summary

	fmt.Printf("\nSnapshot for %s since %s (%d days):\n", snap.Organization, snap.Since.Format("2006-01-02"), snap.Days)
	fmt.Println("-----------------------------------")
	fmt.Printf("Repositories: %d\n", s.TotalRepositories)
	fmt.Printf("Pull Requests: %d (%d open, %d merged, %d closed)\n",
		s.TotalPullRequests, s.OpenPullRequests, s.MergedPullRequests, s.ClosedPullRequests)
	fmt.Printf("Commits: %d\n", s.TotalCommits)
	fmt.Printf("Reviews: %d\n", s.TotalReviews)
	fmt.Printf("Comments: %d\n", s.TotalComments)
	fmt.Printf("Review Requests: %d\n", s.TotalReviewRequests)
	fmt.Printf("Lines: +%d -%d across %d files\n", s.TotalAdditions, s.TotalDeletions, s.TotalChangedFiles)
}

// printSummaryStatistics calculates and displays mean and median review times
func printSummaryStatistics(results []github.PullRequestMetric) {
	// Collect all the time durations for each category
	var firstReviewTimes []time.Duration
	var approvalTimes []time.Duration
	var waitingTimes []time.Duration

	for _, result := range results {
		if result.HasReview {
			if result.TimeToFirstReview > 0 {
				firstReviewTimes = append(firstReviewTimes, result.TimeToFirstReview)
			}
			if result.TimeToApproval > 0 {
				approvalTimes = append(approvalTimes, result.TimeToApproval)
			}
		} else {
			waitingTimes = append(waitingTimes, result.TimeSinceCreation)
		}
	}

	fmt.Println("\nReview Statistics:")
	fmt.Println("-----------------")

	printDurations("Time to First Review", firstReviewTimes)
	printDurations("Time to Approval", approvalTimes)

	if len(waitingTimes) > 0 {
		fmt.Printf("PRs Awaiting Review: %d\n", len(waitingTimes))
		fmt.Printf("  Mean wait time: %v\n", mean(waitingTimes).Truncate(time.Second))
		fmt.Printf("  Median wait time: %v\n", github.Median(waitingTimes).Truncate(time.Second))
	} else {
		fmt.Println("PRs Awaiting Review: 0")
	}
}

func printDurations(label string, durations []time.Duration) {
	if len(durations) == 0 {
		fmt.Printf("%s: No data\n", label)
		return
	}
	fmt.Printf("%s:\n", label)
	fmt.Printf("  Mean: %v\n", mean(durations).Truncate(time.Second))
	fmt.Printf("  Median: %v\n", github.Median(durations).Truncate(time.Second))
}

func mean(durations []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}
