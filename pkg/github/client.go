package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// DefaultPerPage is the page size requested from the repository listing
// endpoint, which is also the largest GitHub allows
const DefaultPerPage = 100

// Client lists source repositories using the GitHub REST API
type Client struct {
	client  *github.Client
	perPage int
	retry   *RetryConfig
}

// ClientOption configures a Client
type ClientOption func(*Client) error

// WithBaseURL points the client at a GitHub Enterprise or test API root
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		if baseURL == "" {
			return nil
		}
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid GitHub API URL %q: scheme must be http or https", baseURL)
		}
		c.client.BaseURL = u
		return nil
	}
}

// WithRetryConfig sets the retry policy used for listing calls
func WithRetryConfig(cfg *RetryConfig) ClientOption {
	return func(c *Client) error {
		c.retry = cfg
		return nil
	}
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	c := &Client{
		client:  github.NewClient(tc),
		perPage: DefaultPerPage,
		retry:   DefaultRetryConfig(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ListUserRepositories returns every repository owned by owner, in the
// order the API returns them. Pages are requested until one comes back
// empty or shorter than the page size.
func (c *Client) ListUserRepositories(ctx context.Context, owner string) ([]Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var allRepos []Repository

	for page := 1; ; page++ {
		opts.Page = page

		var repos []*github.Repository
		err := WithRetry(ctx, func() error {
			var err error
			repos, _, err = c.client.Repositories.ListByUser(ctx, owner, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("repositories of user %s", owner))
			}
			return nil
		}, c.retry)
		if err != nil {
			return nil, err
		}

		for _, repo := range repos {
			allRepos = append(allRepos, convertGitHubRepository(repo))
		}

		if len(repos) < c.perPage {
			break
		}
	}

	return allRepos, nil
}

// convertGitHubRepository converts a GitHub API repository to our internal type
func convertGitHubRepository(repo *github.Repository) Repository {
	return Repository{
		ID:       repo.GetID(),
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		CloneURL: repo.GetCloneURL(),
		Private:  repo.GetPrivate(),
		Fork:     repo.GetFork(),
		Archived: repo.GetArchived(),
	}
}
