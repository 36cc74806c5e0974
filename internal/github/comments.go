package github

// ReconcileComments merges the three comment sources of a pull request in
// source order: line comments, issue comments, then review bodies. The
// sources use disjoint id spaces, so nothing is de-duplicated, and nothing
// is re-sorted.
func ReconcileComments(line, issue []Comment, reviews []Review) []Comment {
	merged := make([]Comment, 0, len(line)+len(issue)+len(reviews))
	merged = append(merged, line...)
	merged = append(merged, issue...)
	for _, r := range reviews {
		if comment, ok := ReviewComment(r); ok {
			merged = append(merged, comment)
		}
	}
	return merged
}
