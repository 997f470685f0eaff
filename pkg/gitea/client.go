package gitea

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"code.gitea.io/sdk/gitea"
)

// DefaultPageSize is the page size requested when listing organization
// repositories
const DefaultPageSize = 100

// MirrorOptions describes a pull mirror to create on the target
type MirrorOptions struct {
	CloneAddr      string
	RepoName       string
	Owner          string
	MirrorInterval string
	AuthToken      string
	Wiki           bool
}

// Validate checks the fields Gitea requires for a GitHub migration
func (o MirrorOptions) Validate() error {
	switch {
	case o.CloneAddr == "":
		return errors.New("clone address is required")
	case o.RepoName == "":
		return errors.New("repository name is required")
	case o.Owner == "":
		return errors.New("repository owner is required")
	case o.AuthToken == "":
		return errors.New("github migrations require an auth token")
	}
	return nil
}

// Client wraps the Gitea SDK with the calls a mirror run needs
type Client struct {
	client   *gitea.Client
	baseURL  string
	pageSize int
}

// NewClient creates a client for the Gitea instance at baseURL. The server
// version is not probed, so creating a client makes no request.
func NewClient(baseURL, token string, opts ...gitea.ClientOption) (*Client, error) {
	options := append([]gitea.ClientOption{
		gitea.SetToken(token),
		gitea.SetGiteaVersion(""),
	}, opts...)

	c, err := gitea.NewClient(baseURL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gitea client for %s: %w", baseURL, err)
	}

	return &Client{
		client:   c,
		baseURL:  baseURL,
		pageSize: DefaultPageSize,
	}, nil
}

// BaseURL returns the Gitea instance URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OrgExists probes for the organization. A 404 answer means it does not
// exist; any other failure is returned as an *Error.
func (c *Client) OrgExists(ctx context.Context, org string) (bool, error) {
	c.client.SetContext(ctx)

	_, resp, err := c.client.GetOrg(org)
	if err == nil {
		return true, nil
	}
	if hasStatus(resp, http.StatusNotFound) {
		return false, nil
	}
	return false, wrapError(err, resp, "organization "+org)
}

func hasStatus(resp *gitea.Response, status int) bool {
	return resp != nil && resp.Response != nil && resp.StatusCode == status
}

// CreateOrg creates the organization. Anything but 201 Created is an error.
func (c *Client) CreateOrg(ctx context.Context, org, fullName string) error {
	c.client.SetContext(ctx)

	_, resp, err := c.client.CreateOrg(gitea.CreateOrgOption{
		Name:     org,
		FullName: fullName,
	})
	if err != nil {
		return wrapError(err, resp, "organization "+org)
	}
	if resp.StatusCode != http.StatusCreated {
		return &Error{Type: ErrorTypeUnexpected, Resource: "organization " + org, StatusCode: resp.StatusCode}
	}
	return nil
}

// ListOrgRepositories returns the names of every repository in org. Pages
// are requested until one comes back empty, or shorter than the page size
// without a next link. Gitea caps limit at MAX_RESPONSE_ITEMS (50 by
// default), so a short page can still be followed by more.
func (c *Client) ListOrgRepositories(ctx context.Context, org string) ([]string, error) {
	c.client.SetContext(ctx)

	opt := gitea.ListOrgReposOptions{
		ListOptions: gitea.ListOptions{PageSize: c.pageSize},
	}

	var names []string
	for page := 1; ; page++ {
		opt.Page = page

		repos, resp, err := c.client.ListOrgRepos(org, opt)
		if err != nil {
			return nil, wrapError(err, resp, fmt.Sprintf("repositories of organization %s", org))
		}

		for _, repo := range repos {
			names = append(names, repo.Name)
		}

		if len(repos) == 0 {
			break
		}
		if len(repos) < c.pageSize && (resp == nil || resp.NextPage <= page) {
			break
		}
	}

	return names, nil
}

// MigrateRepository asks Gitea to create a pull mirror of a GitHub
// repository. Anything but 201 Created is an error.
func (c *Client) MigrateRepository(ctx context.Context, opts MirrorOptions) error {
	resource := fmt.Sprintf("repository %s/%s", opts.Owner, opts.RepoName)
	if err := opts.Validate(); err != nil {
		return &Error{Type: ErrorTypeValidation, Resource: resource, Cause: err}
	}

	c.client.SetContext(ctx)

	_, resp, err := c.client.MigrateRepo(gitea.MigrateRepoOption{
		RepoName:       opts.RepoName,
		RepoOwner:      opts.Owner,
		CloneAddr:      opts.CloneAddr,
		Service:        gitea.GitServiceGithub,
		AuthToken:      opts.AuthToken,
		Mirror:         true,
		MirrorInterval: opts.MirrorInterval,
		Wiki:           opts.Wiki,
	})
	if err != nil {
		return wrapError(err, resp, resource)
	}
	if resp.StatusCode != http.StatusCreated {
		return &Error{Type: ErrorTypeUnexpected, Resource: resource, StatusCode: resp.StatusCode}
	}
	return nil
}
