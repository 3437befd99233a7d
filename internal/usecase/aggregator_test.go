package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/review-kpi/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListTeamRepos(ctx context.Context, org, teamSlug string) ([]domain.Repository, error) {
	args := m.Called(ctx, org, teamSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockFetcher) ListPullRequests(ctx context.Context, org, repo string) ([]domain.PullRequest, error) {
	args := m.Called(ctx, org, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) ListReviews(ctx context.Context, org, repo string, number int) ([]domain.Review, error) {
	args := m.Called(ctx, org, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func TestIsAutoApproved(t *testing.T) {
	created := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	pull := domain.PullRequest{Number: 1, CreatedAt: created}

	testCases := []struct {
		name     string
		reviews  []domain.Review
		expected bool
	}{
		{
			name:     "single review four minutes after creation",
			reviews:  []domain.Review{{Reviewer: "bot", SubmittedAt: created.Add(4 * time.Minute)}},
			expected: true,
		},
		{
			name:     "single review exactly at the five minute boundary",
			reviews:  []domain.Review{{Reviewer: "bot", SubmittedAt: created.Add(5 * time.Minute)}},
			expected: true,
		},
		{
			name:     "single review six minutes after creation",
			reviews:  []domain.Review{{Reviewer: "alice", SubmittedAt: created.Add(6 * time.Minute)}},
			expected: false,
		},
		{
			name: "two reviews both within one minute",
			reviews: []domain.Review{
				{Reviewer: "alice", SubmittedAt: created.Add(30 * time.Second)},
				{Reviewer: "bob", SubmittedAt: created.Add(45 * time.Second)},
			},
			expected: false,
		},
		{
			name:     "zero reviews",
			reviews:  nil,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsAutoApproved(pull, tc.reviews))
		})
	}
}

func TestAggregator_Fold(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)

	created := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	window := domain.Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	repos := []domain.Repository{{Name: "service-a"}}

	mergedAfterTwoHours := created.Add(2 * time.Hour)
	pulls := []domain.PullRequest{
		{Number: 1, CreatedAt: created, MergedAt: &mergedAfterTwoHours},
		{Number: 2, CreatedAt: created.Add(time.Hour), MergedAt: &mergedAfterTwoHours},
		{Number: 3, CreatedAt: created.Add(2 * time.Hour)},
	}

	fetcher := new(mockFetcher)
	fetcher.On("ListPullRequests", mock.Anything, "acme", "service-a").Return(pulls, nil)
	// PR 1: merged, one genuine review three hours after creation.
	fetcher.On("ListReviews", mock.Anything, "acme", "service-a", 1).
		Return([]domain.Review{{Reviewer: "alice", SubmittedAt: created.Add(3 * time.Hour)}}, nil)
	// PR 2: auto-approved, sole review two minutes after creation.
	fetcher.On("ListReviews", mock.Anything, "acme", "service-a", 2).
		Return([]domain.Review{{Reviewer: "owner-bot", SubmittedAt: created.Add(time.Hour + 2*time.Minute)}}, nil)
	// PR 3: open and unreviewed.
	fetcher.On("ListReviews", mock.Anything, "acme", "service-a", 3).
		Return([]domain.Review{}, nil)

	aggregator := NewAggregator(fetcher, logger)
	metrics, err := aggregator.Fold(ctx, "acme", repos, window)
	require.NoError(t, err)

	require.Contains(t, metrics, "2024-01")
	require.Len(t, metrics, 1)
	m := metrics["2024-01"]
	assert.Equal(t, 2, m.TotalPRs)
	assert.Equal(t, 1, m.AutoApprovedPRs)
	assert.Equal(t, 1, m.ReviewedPRs)
	assert.InDelta(t, 2.0, m.TotalReviewTimeHours(), 1e-9)
	assert.InDelta(t, 50.0, m.Coverage(), 1e-9)
	assert.Equal(t, map[string]int{"alice": 1}, m.ReviewerCounts)

	fetcher.AssertExpectations(t)
}

func TestAggregator_Fold_Idempotent(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)

	created := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)
	merged := created.Add(26 * time.Hour)
	window := domain.Window{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
	}
	repos := []domain.Repository{{Name: "service-a"}}

	fetcher := new(mockFetcher)
	fetcher.On("ListPullRequests", mock.Anything, "acme", "service-a").
		Return([]domain.PullRequest{{Number: 7, CreatedAt: created, MergedAt: &merged}}, nil)
	fetcher.On("ListReviews", mock.Anything, "acme", "service-a", 7).
		Return([]domain.Review{
			{Reviewer: "alice", SubmittedAt: created.Add(2 * time.Hour)},
			{Reviewer: "alice", SubmittedAt: created.Add(20 * time.Hour)},
			{Reviewer: "bob", SubmittedAt: created.Add(25 * time.Hour)},
		}, nil)

	aggregator := NewAggregator(fetcher, logger)
	first, err := aggregator.Fold(ctx, "acme", repos, window)
	require.NoError(t, err)
	second, err := aggregator.Fold(ctx, "acme", repos, window)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// One credit per review object, not deduplicated per reviewer.
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1}, first["2024-02"].ReviewerCounts)
}

func TestAggregator_Fold_SkipsPullRequestsOutsideWindow(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)

	window := domain.Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	repos := []domain.Repository{{Name: "service-a"}}

	fetcher := new(mockFetcher)
	fetcher.On("ListPullRequests", mock.Anything, "acme", "service-a").
		Return([]domain.PullRequest{
			{Number: 1, CreatedAt: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)},
			{Number: 2, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)

	aggregator := NewAggregator(fetcher, logger)
	metrics, err := aggregator.Fold(ctx, "acme", repos, window)
	require.NoError(t, err)

	// Out-of-window pull requests never trigger a review fetch or an entry.
	assert.Empty(t, metrics)
	fetcher.AssertNotCalled(t, "ListReviews", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregator_Fold_PropagatesFetchErrors(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)

	window := domain.Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	}
	repos := []domain.Repository{{Name: "service-a"}}

	fetcher := new(mockFetcher)
	fetcher.On("ListPullRequests", mock.Anything, "acme", "service-a").
		Return(nil, errors.New("github api error"))

	aggregator := NewAggregator(fetcher, logger)
	metrics, err := aggregator.Fold(ctx, "acme", repos, window)

	assert.Error(t, err)
	assert.Nil(t, metrics)
	assert.Contains(t, err.Error(), "service-a")
}
