package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FilterMode selects how the repository name list is applied
type FilterMode string

const (
	FilterModeInclude FilterMode = "include"
	FilterModeExclude FilterMode = "exclude"
)

// OrgFailurePolicy decides what a run does when the target organization
// could not be confirmed or created
type OrgFailurePolicy string

const (
	// OrgFailureContinue proceeds with mirroring; mirror requests will then
	// fail individually against the missing organization.
	OrgFailureContinue OrgFailurePolicy = "continue"
	// OrgFailureAbort stops the run before the target is listed.
	OrgFailureAbort OrgFailurePolicy = "abort"
)

// Defaults applied when a setting is not provided
const (
	DefaultGitHubAPIURL     = "https://api.github.com/"
	DefaultOrgFullName      = "GitHub Mirror Org"
	DefaultMirrorInterval   = "8h"
	DefaultFilterMode       = FilterModeInclude
	DefaultOrgFailurePolicy = OrgFailureContinue
)

// Config represents a fully resolved gitea-mirror configuration.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	GitHub           GitHubConfig     `yaml:"github"`
	Gitea            GiteaConfig      `yaml:"gitea"`
	CloneWiki        bool             `yaml:"clone_wiki"`
	FilterMode       FilterMode       `yaml:"filter_mode"`
	FilterRepoList   string           `yaml:"filter_repo_list"`
	MirrorInterval   string           `yaml:"mirror_interval"`
	OrgFailurePolicy OrgFailurePolicy `yaml:"org_failure_policy"`
	ListRetries      int              `yaml:"list_retries"`
	DryRun           bool             `yaml:"dry_run"`
	Debug            bool             `yaml:"debug"`
}

// GitHubConfig represents the source side settings
type GitHubConfig struct {
	Owner  string `yaml:"owner"`
	Token  string `yaml:"token"`
	APIURL string `yaml:"api_url,omitempty"`
}

// GiteaConfig represents the target side settings
type GiteaConfig struct {
	URL         string `yaml:"url"`
	Org         string `yaml:"org"`
	Token       string `yaml:"token"`
	OrgFullName string `yaml:"org_full_name,omitempty"`
}

// FilterNames returns the configured repository names with surrounding
// whitespace removed and empty entries dropped
func (c *Config) FilterNames() []string {
	var names []string
	for _, name := range strings.Split(c.FilterRepoList, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks that every required setting is present and that the
// enumerated settings hold one of their allowed values. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs ValidationErrors

	required := []struct {
		env   string
		value string
	}{
		{EnvGitHubOwner, c.GitHub.Owner},
		{EnvGitHubToken, c.GitHub.Token},
		{EnvGiteaOrg, c.Gitea.Org},
		{EnvGiteaURL, c.Gitea.URL},
		{EnvGiteaToken, c.Gitea.Token},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs.Add(r.env, "", "required setting is missing")
		}
	}

	switch c.FilterMode {
	case FilterModeInclude, FilterModeExclude:
	default:
		errs.Add(EnvFilterMode, string(c.FilterMode), "must be either 'include' or 'exclude'")
	}

	switch c.OrgFailurePolicy {
	case OrgFailureContinue, OrgFailureAbort:
	default:
		errs.Add(EnvOrgFailurePolicy, string(c.OrgFailurePolicy), "must be either 'continue' or 'abort'")
	}

	if _, err := time.ParseDuration(c.MirrorInterval); err != nil {
		errs.Add(EnvMirrorInterval, c.MirrorInterval, "must be a duration such as 8h or 30m")
	}

	if c.ListRetries < 0 {
		errs.Add(EnvListRetries, fmt.Sprintf("%d", c.ListRetries), "cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// SaveConfigToPath writes the configuration as YAML to path. The file holds
// tokens, so it is only readable by the owner.
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".gitea-mirror", "config.yaml"), nil
}
