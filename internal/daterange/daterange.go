// Package daterange resolves relative month specifications into absolute,
// inclusive date windows.
package daterange

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/review-kpi/internal/domain"
)

// MonthSpec is a relative month range: from StartMonthsAgo months before now
// up to EndMonthsAgo months before now. StartMonthsAgo >= EndMonthsAgo always
// holds for a parsed spec.
type MonthSpec struct {
	StartMonthsAgo int
	EndMonthsAgo   int
}

// ParseMonthSpec parses "N" into (N, N) and "A-B" into (A, B).
//
//	"0"    current month only
//	"1"    previous month only
//	"2-0"  from 2 months ago including the current month
//	"14-2" from 14 months ago up to 2 months ago
func ParseMonthSpec(text string) (MonthSpec, error) {
	if start, end, found := strings.Cut(text, "-"); found {
		startMonths, err := parseMonths(text, start)
		if err != nil {
			return MonthSpec{}, err
		}
		endMonths, err := parseMonths(text, end)
		if err != nil {
			return MonthSpec{}, err
		}
		if startMonths < endMonths {
			return MonthSpec{}, &domain.InvalidRangeError{
				Spec:   text,
				Reason: "start month must be greater than or equal to end month",
			}
		}
		return MonthSpec{StartMonthsAgo: startMonths, EndMonthsAgo: endMonths}, nil
	}
	months, err := parseMonths(text, text)
	if err != nil {
		return MonthSpec{}, err
	}
	return MonthSpec{StartMonthsAgo: months, EndMonthsAgo: months}, nil
}

func parseMonths(spec, token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, &domain.InvalidRangeError{
			Spec:   spec,
			Reason: fmt.Sprintf("%q is not a non-negative integer", token),
		}
	}
	return n, nil
}

// Resolve turns spec into an absolute window relative to now.
//
// The window starts on the first day of the month StartMonthsAgo months
// before now. It ends at now itself when EndMonthsAgo is 0, and otherwise on
// the last calendar day of the month EndMonthsAgo months before now,
// inclusive of the whole day. The arithmetic is calendar-correct across year
// boundaries and varying month lengths.
func Resolve(spec MonthSpec, now time.Time) domain.Window {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	start := firstOfCurrent.AddDate(0, -spec.StartMonthsAgo, 0)

	end := now
	if spec.EndMonthsAgo > 0 {
		// First day of the month after the target month, minus one day.
		lastDay := firstOfCurrent.AddDate(0, -spec.EndMonthsAgo+1, -1)
		end = time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), 23, 59, 59, 0, now.Location())
	}
	return domain.Window{Start: start, End: end}
}
