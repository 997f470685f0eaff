package mirror

import (
	"gitea-mirror/pkg/config"
	"gitea-mirror/pkg/github"
)

// Filter applies a name list to repos. Include mode keeps only the named
// repositories, exclude mode drops them. Relative order is preserved and
// repos is not modified.
func Filter(repos []github.Repository, mode config.FilterMode, names []string) []github.Repository {
	listed := make(map[string]struct{}, len(names))
	for _, name := range names {
		listed[name] = struct{}{}
	}

	keepListed := mode == config.FilterModeInclude

	filtered := make([]github.Repository, 0, len(repos))
	for _, repo := range repos {
		if _, ok := listed[repo.Name]; ok == keepListed {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}
