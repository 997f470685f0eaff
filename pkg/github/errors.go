package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of GitHub API errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// GitHubError represents a structured error from GitHub operations
type GitHubError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Cause      error     `json:"-"`
	Resource   string    `json:"resource,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Retryable  bool      `json:"retryable"`
}

// Error implements the error interface
func (e *GitHubError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *GitHubError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *GitHubError) IsRetryable() bool {
	return e.Retryable
}

// NewGitHubError creates a new GitHubError with the specified type and message
func NewGitHubError(errorType ErrorType, message string, cause error) *GitHubError {
	return &GitHubError{
		Type:      errorType,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryableErrorType(errorType),
	}
}

// WrapGitHubError wraps a GitHub API error into our structured error type
func WrapGitHubError(err error, resource string) *GitHubError {
	if err == nil {
		return nil
	}

	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		if ghErr.Resource == "" {
			ghErr.Resource = resource
		}
		return ghErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &GitHubError{
			Type:       ErrorTypeRateLimit,
			Message:    fmt.Sprintf("Rate limit exceeded. Reset at %v", rateErr.Rate.Reset.Time),
			Cause:      err,
			Resource:   resource,
			StatusCode: statusCode(rateErr.Response),
			Retryable:  true,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &GitHubError{
			Type:       ErrorTypeRateLimit,
			Message:    "Secondary rate limit triggered. Please wait before retrying",
			Cause:      err,
			Resource:   resource,
			StatusCode: statusCode(abuseErr.Response),
			Retryable:  true,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return parseGitHubAPIError(respErr, resource)
	}

	if isNetworkError(err) {
		return &GitHubError{
			Type:      ErrorTypeNetwork,
			Message:   "Network error occurred. Please check your connection and try again",
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	return &GitHubError{
		Type:      ErrorTypeUnknown,
		Message:   err.Error(),
		Cause:     err,
		Resource:  resource,
		Retryable: false,
	}
}

// parseGitHubAPIError parses GitHub API error responses into structured errors
func parseGitHubAPIError(ghErr *github.ErrorResponse, resource string) *GitHubError {
	baseErr := &GitHubError{
		Resource:   resource,
		Cause:      ghErr,
		StatusCode: statusCode(ghErr.Response),
	}

	switch baseErr.StatusCode {
	case http.StatusUnauthorized:
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "Authentication failed. Please check your GitHub token"

		if strings.Contains(strings.ToLower(ghErr.Message), "credentials") {
			baseErr.Message = "Invalid or expired GitHub token. Please update the GITHUB_TOKEN environment variable"
		}

	case http.StatusForbidden:
		if strings.Contains(strings.ToLower(ghErr.Message), "rate limit") {
			baseErr.Type = ErrorTypeRateLimit
			baseErr.Message = "GitHub API rate limit exceeded. Please wait before retrying"
			baseErr.Retryable = true
		} else {
			baseErr.Type = ErrorTypePermission
			baseErr.Message = "Insufficient permissions. Your token may not have the required scopes"
		}

	case http.StatusNotFound:
		baseErr.Type = ErrorTypeNotFound
		if strings.Contains(resource, "user") {
			baseErr.Message = "User not found. Please verify the account name is correct"
		} else {
			baseErr.Message = "Resource not found"
		}

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		baseErr.Type = ErrorTypeNetwork
		baseErr.Message = "GitHub API is temporarily unavailable. Please try again later"
		baseErr.Retryable = true

	default:
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = ghErr.Message
		baseErr.Retryable = baseErr.StatusCode >= 500
	}

	return baseErr
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isRetryableErrorType determines if an error type is generally retryable
func isRetryableErrorType(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeRateLimit, ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// RetryConfig defines configuration for retry logic
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the default retry configuration, which does
// not retry at all
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    0,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes an operation, retrying retryable GitHubErrors with
// exponential backoff up to config.MaxRetries times
func WithRetry(ctx context.Context, operation RetryableOperation, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.MaxRetries <= 0 {
		return operation()
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = config.InitialDelay
	expo.MaxInterval = config.MaxDelay
	expo.Multiplier = config.BackoffFactor
	expo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(config.MaxRetries)), ctx)

	attempts := 0
	permanent := false
	err := backoff.Retry(func() error {
		attempts++
		err := operation()
		if err == nil {
			return nil
		}

		var ghErr *GitHubError
		if !errors.As(err, &ghErr) || !ghErr.IsRetryable() {
			permanent = true
			return backoff.Permanent(err)
		}
		return err
	}, policy)

	if err != nil && !permanent && attempts > 1 {
		return fmt.Errorf("operation failed after %d retries: %w", attempts-1, err)
	}
	return err
}
