// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/naka-gawa/review-kpi/internal/domain"
	"github.com/naka-gawa/review-kpi/internal/gateway"
)

// autoApproveWindow is the maximum delay between pull-request creation and a
// sole review for that review to count as an auto-approval.
const autoApproveWindow = 5 * time.Minute

// monthKeyLayout formats a creation time into the "YYYY-MM" metric key.
const monthKeyLayout = "2006-01"

// Aggregator is the use case for folding pull-request and review data into
// per-month code-review metrics.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// IsAutoApproved reports whether a pull request looks auto-approved: exactly
// one review exists and it was submitted within five minutes of the pull
// request's creation. Such a review is treated as a bot/owner rubber stamp
// rather than genuine review. Any other review count or timing, including
// zero reviews, is not an auto-approval.
func IsAutoApproved(pull domain.PullRequest, reviews []domain.Review) bool {
	if len(reviews) != 1 {
		return false
	}
	return reviews[0].SubmittedAt.Sub(pull.CreatedAt) <= autoApproveWindow
}

// Fold walks every repository sequentially and accumulates per-month metrics
// for the pull requests created within the window. One blocking request is in
// flight at a time; any fetch failure aborts the whole fold.
//
// Auto-approved pull requests only bump their month's auto-approved counter.
// Every other in-window pull request counts toward TotalPRs; merged ones
// additionally contribute their cycle time, the reviewed count, and one
// reviewer credit per review object (not deduplicated per reviewer).
func (a *Aggregator) Fold(ctx context.Context, org string, repos []domain.Repository, window domain.Window) (map[string]*domain.MonthlyMetric, error) {
	a.logger.Printf("Usecase: folding metrics for %d repositories...", len(repos))
	metrics := make(map[string]*domain.MonthlyMetric)

	for _, repo := range repos {
		pulls, err := a.fetcher.ListPullRequests(ctx, org, repo.Name)
		if err != nil {
			return nil, fmt.Errorf("repo %s: %w", repo.Name, err)
		}

		for _, pull := range pulls {
			if !window.Contains(pull.CreatedAt) {
				continue
			}
			monthKey := pull.CreatedAt.Format(monthKeyLayout)
			metric, ok := metrics[monthKey]
			if !ok {
				metric = domain.NewMonthlyMetric()
				metrics[monthKey] = metric
			}

			reviews, err := a.fetcher.ListReviews(ctx, org, repo.Name, pull.Number)
			if err != nil {
				return nil, fmt.Errorf("repo %s pull #%d: %w", repo.Name, pull.Number, err)
			}

			if IsAutoApproved(pull, reviews) {
				metric.AutoApprovedPRs++
				continue
			}

			metric.TotalPRs++
			if pull.MergedAt == nil {
				continue
			}
			metric.CycleTimesHours = append(metric.CycleTimesHours, pull.MergedAt.Sub(pull.CreatedAt).Hours())
			metric.ReviewedPRs++
			for _, review := range reviews {
				metric.ReviewerCounts[review.Reviewer]++
			}
		}
	}

	a.logger.Println("Usecase: fold complete.")
	return metrics, nil
}
