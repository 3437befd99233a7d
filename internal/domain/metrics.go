package domain

import (
	"time"

	"github.com/montanaflynn/stats"
)

// Window is an inclusive date range over which pull requests are considered.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthlyMetric accumulates code-review KPIs for the pull requests created in
// a single calendar month. It is the core domain entity of this application.
//
// Auto-approved pull requests are counted separately and excluded from every
// other field: they never contribute to TotalPRs, ReviewedPRs, cycle time or
// reviewer counts.
type MonthlyMetric struct {
	TotalPRs        int
	ReviewedPRs     int
	AutoApprovedPRs int
	CycleTimesHours []float64
	ReviewerCounts  map[string]int
}

// NewMonthlyMetric returns an empty metric with an initialized reviewer map.
func NewMonthlyMetric() *MonthlyMetric {
	return &MonthlyMetric{ReviewerCounts: make(map[string]int)}
}

// TotalReviewTimeHours is the summed creation-to-merge time of the month's
// merged pull requests.
func (m *MonthlyMetric) TotalReviewTimeHours() float64 {
	if len(m.CycleTimesHours) == 0 {
		return 0
	}
	total, _ := stats.Sum(m.CycleTimesHours)
	return total
}

// AvgCycleTimeHours is the mean creation-to-merge time, or 0 when no pull
// request was merged.
func (m *MonthlyMetric) AvgCycleTimeHours() float64 {
	if len(m.CycleTimesHours) == 0 {
		return 0
	}
	mean, _ := stats.Mean(m.CycleTimesHours)
	return mean
}

// Coverage is the percentage of the month's pull requests that were merged,
// or 0 when the month has no pull requests.
func (m *MonthlyMetric) Coverage() float64 {
	if m.TotalPRs == 0 {
		return 0
	}
	return float64(m.ReviewedPRs) / float64(m.TotalPRs) * 100
}

// TotalReviews is the number of review actions across all reviewers.
func (m *MonthlyMetric) TotalReviews() int {
	total := 0
	for _, n := range m.ReviewerCounts {
		total += n
	}
	return total
}

// Merge folds other into m. The renderers use it to build grand totals.
func (m *MonthlyMetric) Merge(other *MonthlyMetric) {
	m.TotalPRs += other.TotalPRs
	m.ReviewedPRs += other.ReviewedPRs
	m.AutoApprovedPRs += other.AutoApprovedPRs
	m.CycleTimesHours = append(m.CycleTimesHours, other.CycleTimesHours...)
	for reviewer, n := range other.ReviewerCounts {
		m.ReviewerCounts[reviewer] += n
	}
}
