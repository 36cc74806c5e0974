package github

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const perPage = 100

// PageFunc fetches one page of a list endpoint. Pages start at 1.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// StopFunc inspects a fetched page and reports whether pagination should
// end after it, returning the part of the page to keep.
type StopFunc[T any] func(page []T) (keep []T, done bool)

// Paginate fetches pages in order until an empty page or until stop reports
// done. A failing page ends pagination; whatever was collected so far is
// returned and the failure is logged.
func Paginate[T any](ctx context.Context, log *zap.SugaredLogger, resource string, fetch PageFunc[T], stop StopFunc[T]) []T {
	var all []T

	for page := 1; ; page++ {
		items, err := fetch(ctx, page)
		if err != nil {
			log.Warnw("Stopping pagination after failed page",
				"resource", resource,
				"page", page,
				"collected", len(all),
				"error", err,
			)
			return all
		}

		if len(items) == 0 {
			return all
		}

		if stop != nil {
			keep, done := stop(items)
			all = append(all, keep...)
			if done {
				return all
			}
			continue
		}

		all = append(all, items...)
	}
}

// CutoffStop is for listings sorted newest first. Once the last item of a
// page is older than cutoff, the page is trimmed to the items at or after
// cutoff and pagination stops.
func CutoffStop[T any](cutoff time.Time, timeOf func(T) time.Time) StopFunc[T] {
	return func(page []T) ([]T, bool) {
		last := page[len(page)-1]
		if !timeOf(last).Before(cutoff) {
			return page, false
		}

		keep := make([]T, 0, len(page))
		for _, item := range page {
			if !timeOf(item).Before(cutoff) {
				keep = append(keep, item)
			}
		}
		return keep, true
	}
}
