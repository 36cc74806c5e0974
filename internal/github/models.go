package github

import "time"

// Comment types
const (
	CommentTypeReview = "pr_review"
	CommentTypeLine   = "pr_line"
	CommentTypeIssue  = "issue"
)

// User is an account reference. Every embedding location carries its own copy.
type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	URL       string `json:"url"`
}

// License is the fixed four-field license shape of a repository.
type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
	URL    string `json:"url"`
}

// Repository represents a repository of the organization.
type Repository struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	URL             string     `json:"url"`
	Description     *string    `json:"description"`
	Fork            bool       `json:"fork"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	PushedAt        *time.Time `json:"pushed_at"`
	Size            int        `json:"size"`
	StargazersCount int        `json:"stargazers_count"`
	WatchersCount   int        `json:"watchers_count"`
	ForksCount      int        `json:"forks_count"`
	Language        *string    `json:"language"`
	Archived        bool       `json:"archived"`
	Disabled        bool       `json:"disabled"`
	OpenIssuesCount int        `json:"open_issues_count"`
	License         *License   `json:"license"`
	Topics          []string   `json:"topics"`
	Visibility      string     `json:"visibility"`
	DefaultBranch   string     `json:"default_branch"`

	// Owner is used to address the repository's endpoints and is not part
	// of the snapshot.
	Owner string `json:"-"`
}

// BranchRef is the head or base of a pull request.
type BranchRef struct {
	Ref  string  `json:"ref"`
	SHA  string  `json:"sha"`
	Repo *string `json:"repo"`
}

// Label is a pull request label.
type Label struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
}

// PullRequest represents a pull request with its sub-resources attached.
type PullRequest struct {
	ID                 int64           `json:"id"`
	Number             int             `json:"number"`
	Title              string          `json:"title"`
	URL                string          `json:"url"`
	User               User            `json:"user"`
	State              string          `json:"state"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	ClosedAt           *time.Time      `json:"closed_at"`
	MergedAt           *time.Time      `json:"merged_at"`
	Head               BranchRef       `json:"head"`
	Base               BranchRef       `json:"base"`
	Assignees          []User          `json:"assignees"`
	RequestedReviewers []User          `json:"requested_reviewers"`
	Labels             []Label         `json:"labels"`
	Draft              bool            `json:"draft"`
	Additions          int             `json:"additions"`
	Deletions          int             `json:"deletions"`
	ChangedFiles       int             `json:"changed_files"`
	Commits            []Commit        `json:"commits"`
	Reviews            []Review        `json:"reviews"`
	Comments           []Comment       `json:"comments"`
	ReviewRequests     []ReviewRequest `json:"review_requests"`
}

// Merged reports whether the pull request was merged. State alone does not
// tell: a closed pull request may or may not have been merged.
func (pr *PullRequest) Merged() bool {
	return pr.MergedAt != nil
}

// Signature is the free-text author or committer recorded in a commit.
type Signature struct {
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Date  *time.Time `json:"date"`
}

// CommitStats holds line change counts of a commit.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Total     int `json:"total"`
}

// Commit represents a commit of a pull request. Author and Committer are nil
// when the commit is not linked to an account. Stats is nil when the
// per-commit lookup failed.
type Commit struct {
	SHA             string       `json:"sha"`
	URL             string       `json:"url"`
	Author          *User        `json:"author"`
	Committer       *User        `json:"committer"`
	Message         string       `json:"message"`
	CommitAuthor    Signature    `json:"commit_author"`
	CommitCommitter Signature    `json:"commit_committer"`
	Stats           *CommitStats `json:"stats"`
}

// Review represents a review on a pull request.
type Review struct {
	ID          int64      `json:"id"`
	User        User       `json:"user"`
	Body        *string    `json:"body"`
	State       string     `json:"state"`
	SubmittedAt *time.Time `json:"submitted_at"`
	URL         string     `json:"url"`
}

// Comment is a line comment, an issue comment or a review body. The diff
// fields are only set for line comments.
type Comment struct {
	ID               int64      `json:"id"`
	User             User       `json:"user"`
	Body             *string    `json:"body"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
	URL              string     `json:"url"`
	CommentType      string     `json:"comment_type"`
	Path             *string    `json:"path,omitempty"`
	Position         *int       `json:"position,omitempty"`
	OriginalPosition *int       `json:"original_position,omitempty"`
	CommitID         *string    `json:"commit_id,omitempty"`
	DiffHunk         *string    `json:"diff_hunk,omitempty"`
	InReplyToID      *int64     `json:"in_reply_to_id,omitempty"`
}

// ReviewRequest is a pending review request. The API exposes no request
// time, so RequestedAt is always nil.
type ReviewRequest struct {
	RequestedReviewer User       `json:"requested_reviewer"`
	RequestedAt       *time.Time `json:"requested_at"`
}
