package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type dated struct {
	id      int
	created time.Time
}

func day(n int) time.Time {
	return time.Date(2024, 6, n, 12, 0, 0, 0, time.UTC)
}

func TestPaginate_UntilEmptyPage(t *testing.T) {
	pages := map[int][]int{1: {1, 2}, 2: {3}}
	var requested []int

	got := Paginate(context.Background(), zap.NewNop().Sugar(), "numbers",
		func(ctx context.Context, page int) ([]int, error) {
			requested = append(requested, page)
			return pages[page], nil
		}, nil)

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, []int{1, 2, 3}, requested)
}

func TestPaginate_CutoffStopsEarly(t *testing.T) {
	cutoff := day(10)
	pages := map[int][]dated{
		1: {{1, day(20)}, {2, day(15)}},
		2: {{3, day(12)}, {4, day(10)}, {5, day(9)}, {6, day(8)}},
		3: {{7, day(5)}},
	}
	var requested []int

	got := Paginate(context.Background(), zap.NewNop().Sugar(), "pulls",
		func(ctx context.Context, page int) ([]dated, error) {
			requested = append(requested, page)
			return pages[page], nil
		},
		CutoffStop(cutoff, func(d dated) time.Time { return d.created }))

	ids := make([]int, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.id)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids, "cutoff is inclusive")
	assert.Equal(t, []int{1, 2}, requested, "no page after the cutoff page")
}

func TestPaginate_FailedPageReturnsPartial(t *testing.T) {
	got := Paginate(context.Background(), zap.NewNop().Sugar(), "numbers",
		func(ctx context.Context, page int) ([]int, error) {
			if page == 2 {
				return nil, errors.New("boom")
			}
			return []int{page * 10}, nil
		}, nil)

	assert.Equal(t, []int{10}, got)
}

func TestPaginate_FirstPageFails(t *testing.T) {
	got := Paginate(context.Background(), zap.NewNop().Sugar(), "numbers",
		func(ctx context.Context, page int) ([]int, error) {
			return nil, errors.New("boom")
		}, nil)

	assert.Empty(t, got)
}
