package github

import (
	"testing"
	"time"
)

var metricsNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func reviewAt(login, state string, at time.Time) Review {
	return Review{User: User{Login: login}, State: state, SubmittedAt: &at}
}

func TestReviewMetrics_SkipDraftPRs(t *testing.T) {
	prs := []PullRequest{{Number: 1, Title: "Draft PR", User: User{Login: "author"}, State: "open", Draft: true}}

	results := ReviewMetrics("widgets", prs, nil, metricsNow)

	if len(results) != 0 {
		t.Errorf("Expected 0 results for draft PR, got %d", len(results))
	}
}

func TestReviewMetrics_SkipClosedUnmergedPRs(t *testing.T) {
	prs := []PullRequest{{Number: 1, Title: "Closed PR", User: User{Login: "author"}, State: "closed"}}

	results := ReviewMetrics("widgets", prs, nil, metricsNow)

	if len(results) != 0 {
		t.Errorf("Expected 0 results for closed unmerged PR, got %d", len(results))
	}
}

func TestReviewMetrics_KeepsMergedPRs(t *testing.T) {
	merged := metricsNow.Add(-time.Hour)
	prs := []PullRequest{{Number: 1, User: User{Login: "author"}, State: "closed", MergedAt: &merged}}

	results := ReviewMetrics("widgets", prs, nil, metricsNow)

	if len(results) != 1 {
		t.Errorf("Expected merged PR to be kept, got %d results", len(results))
	}
}

func TestReviewMetrics_SkipDenylistedAuthors(t *testing.T) {
	prs := []PullRequest{{Number: 1, User: User{Login: "denylisted-author"}, State: "open"}}

	results := ReviewMetrics("widgets", prs, []string{"denylisted-author"}, metricsNow)

	if len(results) != 0 {
		t.Errorf("Expected 0 results for denylisted author, got %d", len(results))
	}
}

func TestReviewMetrics_BasicPRWithoutReviews(t *testing.T) {
	createdAt := metricsNow.Add(-2 * time.Hour)
	prs := []PullRequest{{Number: 1, Title: "Basic PR", User: User{Login: "author"}, State: "open", CreatedAt: createdAt}}

	results := ReviewMetrics("widgets", prs, nil, metricsNow)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	result := results[0]
	if result.PRTitle != "Basic PR" {
		t.Errorf("Expected title 'Basic PR', got '%s'", result.PRTitle)
	}
	if result.HasReview {
		t.Errorf("Expected HasReview to be false, got true")
	}
	if result.TimeSinceCreation != 2*time.Hour {
		t.Errorf("Expected TimeSinceCreation to be 2h, got %v", result.TimeSinceCreation)
	}
	if result.FirstReviewer != "" {
		t.Errorf("Expected FirstReviewer to be empty, got '%s'", result.FirstReviewer)
	}
}

func TestReviewMetrics_FirstReviewAndApproval(t *testing.T) {
	createdAt := metricsNow.Add(-10 * time.Hour)
	prs := []PullRequest{{
		Number:    1,
		User:      User{Login: "author"},
		State:     "open",
		CreatedAt: createdAt,
		Reviews: []Review{
			reviewAt("author", "COMMENTED", createdAt.Add(30*time.Minute)),
			reviewAt("pending", "PENDING", createdAt.Add(45*time.Minute)),
			reviewAt("bot", "COMMENTED", createdAt.Add(50*time.Minute)),
			reviewAt("reviewer1", "APPROVED", createdAt.Add(3*time.Hour)),
			reviewAt("reviewer2", "CHANGES_REQUESTED", createdAt.Add(time.Hour)),
			reviewAt("reviewer3", "APPROVED", createdAt.Add(2*time.Hour)),
		},
	}}

	results := ReviewMetrics("widgets", prs, []string{"bot"}, metricsNow)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	result := results[0]
	if !result.HasReview {
		t.Error("Expected HasReview to be true")
	}
	if result.FirstReviewer != "reviewer2" || result.FirstReviewState != "CHANGES_REQUESTED" {
		t.Errorf("Expected first review by reviewer2 (CHANGES_REQUESTED), got %s (%s)", result.FirstReviewer, result.FirstReviewState)
	}
	if result.TimeToFirstReview != time.Hour {
		t.Errorf("Expected TimeToFirstReview 1h, got %v", result.TimeToFirstReview)
	}
	if result.Approver != "reviewer3" {
		t.Errorf("Expected approver reviewer3, got %s", result.Approver)
	}
	if result.TimeToApproval != 2*time.Hour {
		t.Errorf("Expected TimeToApproval 2h, got %v", result.TimeToApproval)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []time.Duration
		want time.Duration
	}{
		{"empty", nil, 0},
		{"odd", []time.Duration{3 * time.Hour, time.Hour, 2 * time.Hour}, 2 * time.Hour},
		{"even", []time.Duration{4 * time.Hour, time.Hour, 2 * time.Hour, 3 * time.Hour}, 150 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.in); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
