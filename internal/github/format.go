package github

import (
	"time"

	"github.com/google/go-github/v39/github"
)

const (
	unknownLogin         = "unknown"
	defaultBranchDefault = "main"
)

// FormatUser maps an account to a User, filling defaults for a missing one.
func FormatUser(u *github.User) User {
	if u == nil {
		return User{Login: unknownLogin}
	}
	login := u.GetLogin()
	if login == "" {
		login = unknownLogin
	}
	return User{
		Login:     login,
		ID:        u.GetID(),
		AvatarURL: u.GetAvatarURL(),
		URL:       u.GetHTMLURL(),
	}
}

// formatOptionalUser keeps a missing account missing.
func formatOptionalUser(u *github.User) *User {
	if u == nil {
		return nil
	}
	user := FormatUser(u)
	return &user
}

func formatUsers(users []*github.User) []User {
	result := make([]User, 0, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		result = append(result, FormatUser(u))
	}
	return result
}

// FormatLicense returns nil when the repository has no license.
func FormatLicense(l *github.License) *License {
	if l == nil {
		return nil
	}
	return &License{
		Key:    l.GetKey(),
		Name:   l.GetName(),
		SPDXID: l.GetSPDXID(),
		URL:    l.GetURL(),
	}
}

// FormatRepository maps a repository payload.
func FormatRepository(r *github.Repository) Repository {
	visibility := r.GetVisibility()
	if visibility == "" {
		visibility = "public"
		if r.GetPrivate() {
			visibility = "private"
		}
	}
	defaultBranch := r.GetDefaultBranch()
	if defaultBranch == "" {
		defaultBranch = defaultBranchDefault
	}
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return Repository{
		ID:              r.GetID(),
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		URL:             r.GetHTMLURL(),
		Description:     r.Description,
		Fork:            r.GetFork(),
		CreatedAt:       timestamp(r.CreatedAt),
		UpdatedAt:       timestamp(r.UpdatedAt),
		PushedAt:        timestamp(r.PushedAt),
		Size:            r.GetSize(),
		StargazersCount: r.GetStargazersCount(),
		WatchersCount:   r.GetWatchersCount(),
		ForksCount:      r.GetForksCount(),
		Language:        r.Language,
		Archived:        r.GetArchived(),
		Disabled:        r.GetDisabled(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		License:         FormatLicense(r.License),
		Topics:          topics,
		Visibility:      visibility,
		DefaultBranch:   defaultBranch,
		Owner:           r.GetOwner().GetLogin(),
	}
}

// FormatLabel maps a label; non-numeric ids were already zeroed on decode.
func FormatLabel(l *labelPayload) Label {
	label := Label{ID: int64(l.ID), Description: l.Description}
	if l.Name != nil {
		label.Name = *l.Name
	}
	if l.Color != nil {
		label.Color = *l.Color
	}
	return label
}

func formatBranch(b *github.PullRequestBranch) BranchRef {
	if b == nil {
		return BranchRef{}
	}
	ref := BranchRef{Ref: b.GetRef(), SHA: b.GetSHA()}
	if b.Repo != nil && b.Repo.GetFullName() != "" {
		name := b.Repo.GetFullName()
		ref.Repo = &name
	}
	return ref
}

// FormatPullRequest maps a pull request payload. Sub-resource lists start
// empty and are attached by the aggregator.
func FormatPullRequest(p *pullRequestPayload) PullRequest {
	labels := make([]Label, 0, len(p.Labels))
	for _, l := range p.Labels {
		if l == nil {
			continue
		}
		labels = append(labels, FormatLabel(l))
	}

	return PullRequest{
		ID:                 p.GetID(),
		Number:             p.GetNumber(),
		Title:              p.GetTitle(),
		URL:                p.GetHTMLURL(),
		User:               FormatUser(p.User),
		State:              p.GetState(),
		CreatedAt:          p.GetCreatedAt(),
		UpdatedAt:          p.GetUpdatedAt(),
		ClosedAt:           p.ClosedAt,
		MergedAt:           p.MergedAt,
		Head:               formatBranch(p.Head),
		Base:               formatBranch(p.Base),
		Assignees:          formatUsers(p.Assignees),
		RequestedReviewers: formatUsers(p.RequestedReviewers),
		Labels:             labels,
		Draft:              p.GetDraft(),
		Additions:          p.GetAdditions(),
		Deletions:          p.GetDeletions(),
		ChangedFiles:       p.GetChangedFiles(),
		Commits:            []Commit{},
		Reviews:            []Review{},
		Comments:           []Comment{},
		ReviewRequests:     []ReviewRequest{},
	}
}

func formatSignature(a *github.CommitAuthor) Signature {
	if a == nil {
		return Signature{}
	}
	return Signature{Name: a.GetName(), Email: a.GetEmail(), Date: a.Date}
}

// FormatCommit maps a commit from a pull request's commit list.
func FormatCommit(c *github.RepositoryCommit) Commit {
	return Commit{
		SHA:             c.GetSHA(),
		URL:             c.GetHTMLURL(),
		Author:          formatOptionalUser(c.Author),
		Committer:       formatOptionalUser(c.Committer),
		Message:         c.GetCommit().GetMessage(),
		CommitAuthor:    formatSignature(c.GetCommit().GetAuthor()),
		CommitCommitter: formatSignature(c.GetCommit().GetCommitter()),
		Stats:           FormatCommitStats(c.Stats),
	}
}

// FormatCommitStats returns nil when stats are absent.
func FormatCommitStats(s *github.CommitStats) *CommitStats {
	if s == nil {
		return nil
	}
	return &CommitStats{
		Additions: s.GetAdditions(),
		Deletions: s.GetDeletions(),
		Total:     s.GetTotal(),
	}
}

// FormatReview maps a review. ok is false for reviews without a user,
// which are dropped.
func FormatReview(r *github.PullRequestReview) (review Review, ok bool) {
	if r == nil || r.User == nil {
		return Review{}, false
	}
	return Review{
		ID:          r.GetID(),
		User:        FormatUser(r.User),
		Body:        r.Body,
		State:       r.GetState(),
		SubmittedAt: r.SubmittedAt,
		URL:         r.GetHTMLURL(),
	}, true
}

// FormatReviews maps reviews, dropping those without a user.
func FormatReviews(reviews []*github.PullRequestReview) []Review {
	result := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if review, ok := FormatReview(r); ok {
			result = append(result, review)
		}
	}
	return result
}

// FormatLineComment maps a diff-anchored review comment.
func FormatLineComment(c *github.PullRequestComment) (comment Comment, ok bool) {
	if c == nil || c.User == nil {
		return Comment{}, false
	}
	return Comment{
		ID:               c.GetID(),
		User:             FormatUser(c.User),
		Body:             c.Body,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		URL:              c.GetHTMLURL(),
		CommentType:      CommentTypeLine,
		Path:             c.Path,
		Position:         c.Position,
		OriginalPosition: c.OriginalPosition,
		CommitID:         c.CommitID,
		DiffHunk:         c.DiffHunk,
		InReplyToID:      c.InReplyTo,
	}, true
}

// FormatLineComments maps line comments, dropping those without a user.
func FormatLineComments(comments []*github.PullRequestComment) []Comment {
	result := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if comment, ok := FormatLineComment(c); ok {
			result = append(result, comment)
		}
	}
	return result
}

// FormatIssueComment maps a general comment on the pull request thread.
func FormatIssueComment(c *github.IssueComment) (comment Comment, ok bool) {
	if c == nil || c.User == nil {
		return Comment{}, false
	}
	return Comment{
		ID:          c.GetID(),
		User:        FormatUser(c.User),
		Body:        c.Body,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		URL:         c.GetHTMLURL(),
		CommentType: CommentTypeIssue,
	}, true
}

// FormatIssueComments maps issue comments, dropping those without a user.
func FormatIssueComments(comments []*github.IssueComment) []Comment {
	result := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if comment, ok := FormatIssueComment(c); ok {
			result = append(result, comment)
		}
	}
	return result
}

// ReviewComment turns a review with a non-empty body into a comment.
func ReviewComment(r Review) (comment Comment, ok bool) {
	if r.Body == nil || *r.Body == "" {
		return Comment{}, false
	}
	return Comment{
		ID:          r.ID,
		User:        r.User,
		Body:        r.Body,
		CreatedAt:   r.SubmittedAt,
		UpdatedAt:   r.SubmittedAt,
		URL:         r.URL,
		CommentType: CommentTypeReview,
	}, true
}

// FormatReviewRequests maps the requested reviewers of a pull request.
// Team requests carry no user and are not included.
func FormatReviewRequests(r *github.Reviewers) []ReviewRequest {
	if r == nil {
		return []ReviewRequest{}
	}
	result := make([]ReviewRequest, 0, len(r.Users))
	for _, u := range r.Users {
		if u == nil {
			continue
		}
		result = append(result, ReviewRequest{RequestedReviewer: FormatUser(u)})
	}
	return result
}

func timestamp(ts *github.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}
