package mirror

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitea-mirror/pkg/gitea"
	"gitea-mirror/pkg/github"
)

// MockSourceLister is a mock implementation of SourceLister for testing
type MockSourceLister struct {
	mock.Mock
}

func (m *MockSourceLister) ListUserRepositories(ctx context.Context, owner string) ([]github.Repository, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Repository), args.Error(1)
}

// MockTargetService is a mock implementation of TargetService for testing
type MockTargetService struct {
	mock.Mock
}

func (m *MockTargetService) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTargetService) OrgExists(ctx context.Context, org string) (bool, error) {
	args := m.Called(ctx, org)
	return args.Bool(0), args.Error(1)
}

func (m *MockTargetService) CreateOrg(ctx context.Context, org, fullName string) error {
	args := m.Called(ctx, org, fullName)
	return args.Error(0)
}

func (m *MockTargetService) ListOrgRepositories(ctx context.Context, org string) ([]string, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTargetService) MigrateRepository(ctx context.Context, opts gitea.MirrorOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func repos(names ...string) []github.Repository {
	out := make([]github.Repository, 0, len(names))
	for i, name := range names {
		out = append(out, github.Repository{
			ID:       int64(i + 1),
			Name:     name,
			FullName: "octo/" + name,
			CloneURL: "https://github.com/octo/" + name + ".git",
		})
	}
	return out
}
