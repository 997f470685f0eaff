package mirror

import (
	"context"

	"gitea-mirror/pkg/gitea"
	"gitea-mirror/pkg/github"
)

// SourceLister lists the repositories owned by a source account
type SourceLister interface {
	ListUserRepositories(ctx context.Context, owner string) ([]github.Repository, error)
}

// TargetService defines the target API operations used by a mirror run
type TargetService interface {
	BaseURL() string

	// Organization operations
	OrgExists(ctx context.Context, org string) (bool, error)
	CreateOrg(ctx context.Context, org, fullName string) error

	// Repository operations
	ListOrgRepositories(ctx context.Context, org string) ([]string, error)
	MigrateRepository(ctx context.Context, opts gitea.MirrorOptions) error
}
