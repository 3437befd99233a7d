// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST client.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/review-kpi/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching review information
// from GitHub. Each method performs exactly one outbound HTTP request; there
// is no caching and no retry.
type Fetcher interface {
	ListTeamRepos(ctx context.Context, org, teamSlug string) ([]domain.Repository, error)
	ListPullRequests(ctx context.Context, org, repo string) ([]domain.PullRequest, error)
	ListReviews(ctx context.Context, org, repo string, number int) ([]domain.Review, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
	}, nil
}

// ListTeamRepos returns the repositories the team has access to.
func (g *GitHubGateway) ListTeamRepos(ctx context.Context, org, teamSlug string) ([]domain.Repository, error) {
	g.logger.Printf("Fetching repositories for team %s...", teamSlug)
	ghRepos, _, err := g.restClient.Teams.ListTeamReposBySlug(ctx, org, teamSlug, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, wrapFetchError("failed to fetch team repos", err)
	}
	repos := make([]domain.Repository, 0, len(ghRepos))
	for _, r := range ghRepos {
		if r.Name == nil {
			return nil, &domain.MalformedResponseError{Resource: "repository", Field: "name"}
		}
		repos = append(repos, domain.Repository{Name: r.GetName()})
	}
	g.logger.Printf("Found %d repositories for team %s.", len(repos), teamSlug)
	return repos, nil
}

// ListPullRequests returns the first page of pull requests in any state.
// Repositories with more than 100 pull requests are only partially covered;
// pagination beyond the first page is a documented limitation.
func (g *GitHubGateway) ListPullRequests(ctx context.Context, org, repo string) ([]domain.PullRequest, error) {
	g.logger.Printf("Fetching pull requests for %s/%s...", org, repo)
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	ghPulls, _, err := g.restClient.PullRequests.List(ctx, org, repo, opts)
	if err != nil {
		return nil, wrapFetchError("failed to fetch pull requests", err)
	}
	pulls := make([]domain.PullRequest, 0, len(ghPulls))
	for _, p := range ghPulls {
		if p.Number == nil {
			return nil, &domain.MalformedResponseError{Resource: "pull request", Field: "number"}
		}
		if p.CreatedAt == nil {
			return nil, &domain.MalformedResponseError{Resource: "pull request", Field: "created_at"}
		}
		pull := domain.PullRequest{
			Number:    p.GetNumber(),
			CreatedAt: p.GetCreatedAt().Time,
		}
		if p.MergedAt != nil {
			mergedAt := p.GetMergedAt().Time
			pull.MergedAt = &mergedAt
		}
		pulls = append(pulls, pull)
	}
	return pulls, nil
}

// ListReviews returns the submitted reviews of a single pull request.
func (g *GitHubGateway) ListReviews(ctx context.Context, org, repo string, number int) ([]domain.Review, error) {
	g.logger.Printf("Fetching reviews for %s/%s#%d...", org, repo, number)
	ghReviews, _, err := g.restClient.PullRequests.ListReviews(ctx, org, repo, number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, wrapFetchError("failed to fetch reviews", err)
	}
	reviews := make([]domain.Review, 0, len(ghReviews))
	for _, r := range ghReviews {
		if r.User == nil || r.User.Login == nil {
			return nil, &domain.MalformedResponseError{Resource: "review", Field: "user.login"}
		}
		if r.SubmittedAt == nil {
			return nil, &domain.MalformedResponseError{Resource: "review", Field: "submitted_at"}
		}
		reviews = append(reviews, domain.Review{
			Reviewer:    r.GetUser().GetLogin(),
			SubmittedAt: r.GetSubmittedAt().Time,
		})
	}
	return reviews, nil
}

// wrapFetchError converts go-github error responses into domain.FetchError,
// preserving the HTTP status code and response message.
func wrapFetchError(msg string, err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return fmt.Errorf("%s: %w", msg, &domain.FetchError{
			Status: errResp.Response.StatusCode,
			Body:   errResp.Message,
		})
	}
	return fmt.Errorf("%s: %w", msg, err)
}
