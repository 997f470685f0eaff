// Package mirror reconciles a GitHub account with a Gitea organization.
//
// A run lists the source repositories, filters them by name, makes sure the
// target organization exists, lists the repositories already present there
// and asks Gitea to create a pull mirror for every repository that is
// missing. Calls are made one at a time, and a repository whose mirror
// cannot be created does not stop the others.
package mirror
