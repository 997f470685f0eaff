package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGitHubServer serves total repositories for owner octo, paginated by the
// per_page query parameter
func mockGitHubServer(t *testing.T, total int, pages *[]int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path != "/users/octo/repos" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}

		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		if pages != nil {
			*pages = append(*pages, page)
		}

		repos := []map[string]interface{}{}
		for i := (page - 1) * perPage; i < page*perPage && i < total; i++ {
			name := fmt.Sprintf("repo-%d", i)
			repos = append(repos, map[string]interface{}{
				"id":        i + 1,
				"name":      name,
				"full_name": "octo/" + name,
				"clone_url": "https://github.com/octo/" + name + ".git",
				"private":   i%2 == 0,
			})
		}
		_ = json.NewEncoder(w).Encode(repos)
	}))
	t.Cleanup(server.Close)
	return server
}

// createTestClient creates a client pointed at the test server
func createTestClient(t *testing.T, server *httptest.Server, opts ...ClientOption) *Client {
	t.Helper()
	client, err := NewClient("test-token", append([]ClientOption{WithBaseURL(server.URL)}, opts...)...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("test-token")
	require.NoError(t, err)

	assert.NotNil(t, client.client)
	assert.Equal(t, DefaultPerPage, client.perPage)
	assert.Equal(t, "https://api.github.com/", client.client.BaseURL.String())
	assert.Equal(t, 0, client.retry.MaxRetries)
}

func TestWithBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		expected  string
		expectErr bool
	}{
		{name: "adds trailing slash", baseURL: "https://ghe.example.com/api/v3", expected: "https://ghe.example.com/api/v3/"},
		{name: "keeps trailing slash", baseURL: "http://localhost:8080/", expected: "http://localhost:8080/"},
		{name: "empty keeps default", baseURL: "", expected: "https://api.github.com/"},
		{name: "rejects other schemes", baseURL: "ftp://example.com", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient("test-token", WithBaseURL(tt.baseURL))
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, client.client.BaseURL.String())
		})
	}
}

func TestListUserRepositories_Pagination(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		perPage       int
		expectedPages []int
	}{
		{name: "short last page", total: 5, perPage: 2, expectedPages: []int{1, 2, 3}},
		{name: "exact multiple ends on empty page", total: 4, perPage: 2, expectedPages: []int{1, 2, 3}},
		{name: "single short page", total: 1, perPage: 100, expectedPages: []int{1}},
		{name: "no repositories", total: 0, perPage: 100, expectedPages: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pages []int
			server := mockGitHubServer(t, tt.total, &pages)
			client := createTestClient(t, server)
			client.perPage = tt.perPage

			repos, err := client.ListUserRepositories(context.Background(), "octo")
			require.NoError(t, err)

			assert.Equal(t, tt.expectedPages, pages)
			require.Len(t, repos, tt.total)
			for i, repo := range repos {
				assert.Equal(t, fmt.Sprintf("repo-%d", i), repo.Name)
			}
		})
	}
}

func TestListUserRepositories_ConvertsFields(t *testing.T) {
	server := mockGitHubServer(t, 1, nil)
	client := createTestClient(t, server)

	repos, err := client.ListUserRepositories(context.Background(), "octo")
	require.NoError(t, err)
	require.Len(t, repos, 1)

	assert.Equal(t, Repository{
		ID:       1,
		Name:     "repo-0",
		FullName: "octo/repo-0",
		CloneURL: "https://github.com/octo/repo-0.git",
		Private:  true,
	}, repos[0])
}

func TestListUserRepositories_Errors(t *testing.T) {
	t.Run("bad token", func(t *testing.T) {
		server := mockGitHubServer(t, 3, nil)
		client, err := NewClient("wrong", WithBaseURL(server.URL))
		require.NoError(t, err)

		_, err = client.ListUserRepositories(context.Background(), "octo")

		var ghErr *GitHubError
		require.ErrorAs(t, err, &ghErr)
		assert.Equal(t, ErrorTypeAuth, ghErr.Type)
		assert.Equal(t, http.StatusUnauthorized, ghErr.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		server := mockGitHubServer(t, 3, nil)
		client := createTestClient(t, server)

		_, err := client.ListUserRepositories(context.Background(), "nobody")

		var ghErr *GitHubError
		require.ErrorAs(t, err, &ghErr)
		assert.Equal(t, ErrorTypeNotFound, ghErr.Type)
		assert.Equal(t, "repositories of user nobody", ghErr.Resource)
	})
}

func TestListUserRepositories_Retry(t *testing.T) {
	newFlakyServer := func(t *testing.T, failures int32) (*httptest.Server, *int32) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if atomic.AddInt32(&calls, 1) <= failures {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"message":"Bad Gateway"}`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":1,"name":"only"}]`))
		}))
		t.Cleanup(server.Close)
		return server, &calls
	}

	t.Run("retries are off by default", func(t *testing.T) {
		server, calls := newFlakyServer(t, 1)
		client := createTestClient(t, server)

		_, err := client.ListUserRepositories(context.Background(), "octo")

		var ghErr *GitHubError
		require.ErrorAs(t, err, &ghErr)
		assert.Equal(t, ErrorTypeNetwork, ghErr.Type)
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	})

	t.Run("retries server errors when enabled", func(t *testing.T) {
		server, calls := newFlakyServer(t, 2)
		client := createTestClient(t, server, WithRetryConfig(&RetryConfig{
			MaxRetries:    3,
			InitialDelay:  time.Millisecond,
			MaxDelay:      5 * time.Millisecond,
			BackoffFactor: 2,
		}))

		repos, err := client.ListUserRepositories(context.Background(), "octo")

		require.NoError(t, err)
		assert.Len(t, repos, 1)
		assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	})
}
