// Package report renders aggregated code-review metrics as plain text or as
// terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/naka-gawa/review-kpi/internal/domain"
)

// Report bundles the aggregated metrics with the context needed to print a
// self-describing header.
type Report struct {
	Org         string
	Team        string
	Window      domain.Window
	GeneratedAt time.Time
	Months      map[string]*domain.MonthlyMetric
}

// sortedMonths returns the metric keys in ascending calendar order.
func (r Report) sortedMonths() []string {
	months := make([]string, 0, len(r.Months))
	for month := range r.Months {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// grandTotal folds every month into a single metric.
func (r Report) grandTotal() *domain.MonthlyMetric {
	total := domain.NewMonthlyMetric()
	for _, month := range r.sortedMonths() {
		total.Merge(r.Months[month])
	}
	return total
}

func renderHeader(w io.Writer, r Report) {
	fmt.Fprintf(w, "Code Review Report - Generated on %s UTC\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Organization: %s\n", r.Org)
	fmt.Fprintf(w, "Team: %s\n", r.Team)
	fmt.Fprintf(w, "Period: %s to %s\n", r.Window.Start.Format("2006-01-02"), r.Window.End.Format("2006-01-02"))
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintln(w)
}

// RenderText prints the per-month metrics followed by a grand-total section
// applying the same formulas across all months. The auto-approved count is
// reported as its own line and never enters a coverage or cycle-time
// denominator.
func RenderText(w io.Writer, r Report) {
	renderHeader(w, r)
	fmt.Fprintln(w, strings.Repeat("=", 50))

	for _, month := range r.sortedMonths() {
		fmt.Fprintf(w, "\nMonth: %s\n", month)
		fmt.Fprintln(w, strings.Repeat("-", 20))
		renderMetricText(w, r.Months[month])
	}

	fmt.Fprintln(w, "\nGrand Total")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	renderMetricText(w, r.grandTotal())
}

func renderMetricText(w io.Writer, m *domain.MonthlyMetric) {
	fmt.Fprintf(w, "Total Pull Requests (excluding auto-approved): %d\n", m.TotalPRs)
	fmt.Fprintf(w, "Auto-approved Pull Requests: %d\n", m.AutoApprovedPRs)
	fmt.Fprintf(w, "Reviewed Pull Requests: %d\n", m.ReviewedPRs)
	fmt.Fprintf(w, "Code Review Coverage: %.2f%%\n", m.Coverage())
	fmt.Fprintf(w, "Average Cycle Time: %.2f hours\n", m.AvgCycleTimeHours())
	fmt.Fprintln(w, "Participation Rate:")
	totalReviews := m.TotalReviews()
	for _, reviewer := range sortedReviewers(m.ReviewerCounts) {
		count := m.ReviewerCounts[reviewer]
		fmt.Fprintf(w, "  %s: %d reviews (%.2f%%)\n", reviewer, count, participation(count, totalReviews))
	}
}

// RenderTable prints the same computed values as two tables: monthly metrics
// with a trailing TOTAL row, and an aggregate reviewer-participation table.
func RenderTable(w io.Writer, r Report) {
	renderHeader(w, r)
	fmt.Fprintln(w, strings.Repeat("=", 50))

	total := r.grandTotal()

	rows := pterm.TableData{{"Month", "Total PRs", "Reviewed PRs", "Coverage (%)", "Avg Cycle Time (hours)"}}
	for _, month := range r.sortedMonths() {
		rows = append(rows, metricRow(month, r.Months[month]))
	}
	rows = append(rows, metricRow("TOTAL", total))
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithWriter(w).WithData(rows).Render()

	fmt.Fprintln(w, "\nParticipation Rate:")
	participationRows := pterm.TableData{{"Reviewer", "Reviews", "Percentage"}}
	totalReviews := total.TotalReviews()
	for _, reviewer := range sortedReviewers(total.ReviewerCounts) {
		count := total.ReviewerCounts[reviewer]
		participationRows = append(participationRows, []string{
			reviewer,
			strconv.Itoa(count),
			fmt.Sprintf("%.2f%%", participation(count, totalReviews)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithWriter(w).WithData(participationRows).Render()
}

func metricRow(label string, m *domain.MonthlyMetric) []string {
	return []string{
		label,
		strconv.Itoa(m.TotalPRs),
		strconv.Itoa(m.ReviewedPRs),
		fmt.Sprintf("%.2f", m.Coverage()),
		fmt.Sprintf("%.2f", m.AvgCycleTimeHours()),
	}
}

func participation(count, totalReviews int) float64 {
	if totalReviews == 0 {
		return 0
	}
	return float64(count) / float64(totalReviews) * 100
}

func sortedReviewers(counts map[string]int) []string {
	reviewers := make([]string, 0, len(counts))
	for reviewer := range counts {
		reviewers = append(reviewers, reviewer)
	}
	sort.Strings(reviewers)
	return reviewers
}
