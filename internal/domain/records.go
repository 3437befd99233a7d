// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Repository identifies a single repository within the organization.
type Repository struct {
	Name string
}

// PullRequest is the subset of a GitHub pull request the metrics fold needs.
// MergedAt is nil for pull requests that were never merged.
type PullRequest struct {
	Number    int
	CreatedAt time.Time
	MergedAt  *time.Time
}

// Review is a single submitted pull-request review.
type Review struct {
	Reviewer    string
	SubmittedAt time.Time
}
