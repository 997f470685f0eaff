// Package github provides read access to the source side of a mirror run.
// It lists the repositories owned by a GitHub account through the REST API
// and classifies API failures into typed errors.
//
// The package includes:
// - Client, a paginating wrapper around go-github
// - GitHubError and its ErrorType classification
// - RetryConfig for optional retries of listing calls
package github
