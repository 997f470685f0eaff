package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Viper keys. Each key maps to an environment variable by upper-casing it
// and replacing "." and "-" with "_", so github.owner is read from
// GITHUB_OWNER.
const (
	KeyGitHubOwner      = "github.owner"
	KeyGitHubToken      = "github.token"
	KeyGitHubAPIURL     = "github.api_url"
	KeyGiteaURL         = "gitea.url"
	KeyGiteaOrg         = "gitea.org"
	KeyGiteaToken       = "gitea.token"
	KeyGiteaOrgFullName = "gitea.org_full_name"
	KeyCloneWiki        = "clone_wiki"
	KeyFilterMode       = "filter_mode"
	KeyFilterRepoList   = "filter_repo_list"
	KeyMirrorInterval   = "mirror_interval"
	KeyOrgFailurePolicy = "org_failure_policy"
	KeyListRetries      = "list_retries"
	KeyDryRun           = "dry_run"
	KeyDebug            = "debug"
)

// Environment variable names, as produced by EnvName for the keys above
const (
	EnvGitHubOwner      = "GITHUB_OWNER"
	EnvGitHubToken      = "GITHUB_TOKEN"
	EnvGitHubAPIURL     = "GITHUB_API_URL"
	EnvGiteaURL         = "GITEA_URL"
	EnvGiteaOrg         = "GITEA_ORG"
	EnvGiteaToken       = "GITEA_TOKEN"
	EnvGiteaOrgFullName = "GITEA_ORG_FULL_NAME"
	EnvCloneWiki        = "CLONE_WIKI"
	EnvFilterMode       = "FILTER_MODE"
	EnvFilterRepoList   = "FILTER_REPO_LIST"
	EnvMirrorInterval   = "MIRROR_INTERVAL"
	EnvOrgFailurePolicy = "ORG_FAILURE_POLICY"
	EnvListRetries      = "LIST_RETRIES"
	EnvDryRun           = "DRY_RUN"
	EnvDebug            = "DEBUG"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvName returns the environment variable viper consults for key
func EnvName(key string) string {
	return strings.ToUpper(envKeyReplacer.Replace(key))
}

// SetViperDefaults prepares v to read settings from the environment and
// registers the default value of every key
func SetViperDefaults(v *viper.Viper) {
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	v.SetDefault(KeyGitHubOwner, "")
	v.SetDefault(KeyGitHubToken, "")
	v.SetDefault(KeyGitHubAPIURL, DefaultGitHubAPIURL)
	v.SetDefault(KeyGiteaURL, "")
	v.SetDefault(KeyGiteaOrg, "")
	v.SetDefault(KeyGiteaToken, "")
	v.SetDefault(KeyGiteaOrgFullName, DefaultOrgFullName)
	v.SetDefault(KeyCloneWiki, false)
	v.SetDefault(KeyFilterMode, string(DefaultFilterMode))
	v.SetDefault(KeyFilterRepoList, "")
	v.SetDefault(KeyMirrorInterval, DefaultMirrorInterval)
	v.SetDefault(KeyOrgFailurePolicy, string(DefaultOrgFailurePolicy))
	v.SetDefault(KeyListRetries, 0)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyDebug, false)
}

// FlagInst is a function that creates a flag and returns a pointer to the value
type FlagInst[V any] func(name string, value V, usage string) *V

// BindConfigFlag registers a command line flag and binds it to viperPath,
// so an explicitly set flag takes precedence over the environment and the
// config file
func BindConfigFlag[V any](
	v *viper.Viper,
	flags *pflag.FlagSet,
	viperPath string,
	cmdLineArg string,
	defaultValue V,
	help string,
	binder FlagInst[V],
) error {
	binder(cmdLineArg, defaultValue, help)
	v.SetDefault(viperPath, defaultValue)
	if err := v.BindPFlag(viperPath, flags.Lookup(cmdLineArg)); err != nil {
		return fmt.Errorf("failed to bind flag %s to viper path %s: %w", cmdLineArg, viperPath, err)
	}
	return nil
}

// RegisterFlags registers one flag per setting on flags
func RegisterFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	stringFlags := []struct {
		key, flag, def, help string
	}{
		{KeyGitHubOwner, "github-owner", "", "GitHub account whose repositories are mirrored"},
		{KeyGitHubToken, "github-token", "", "GitHub token, also handed to Gitea to pull the mirrors"},
		{KeyGitHubAPIURL, "github-api-url", DefaultGitHubAPIURL, "GitHub REST API base URL"},
		{KeyGiteaURL, "gitea-url", "", "Gitea base URL"},
		{KeyGiteaOrg, "gitea-org", "", "Gitea organization that owns the mirrors"},
		{KeyGiteaToken, "gitea-token", "", "Gitea API token"},
		{KeyGiteaOrgFullName, "gitea-org-full-name", DefaultOrgFullName, "Full name given to the organization when it is created"},
		{KeyFilterMode, "filter-mode", string(DefaultFilterMode), "How --filter-repo-list is applied: include or exclude"},
		{KeyFilterRepoList, "filter-repo-list", "", "Comma-separated repository names"},
		{KeyMirrorInterval, "mirror-interval", DefaultMirrorInterval, "Interval at which Gitea refreshes each mirror"},
		{KeyOrgFailurePolicy, "org-failure-policy", string(DefaultOrgFailurePolicy), "What to do when the organization is unavailable: continue or abort"},
	}
	for _, f := range stringFlags {
		if err := BindConfigFlag(v, flags, f.key, f.flag, f.def, f.help, flags.String); err != nil {
			return err
		}
	}

	boolFlags := []struct {
		key, flag, help string
	}{
		{KeyCloneWiki, "clone-wiki", "Mirror the repository wiki as well"},
		{KeyDryRun, "dry-run", "Log the changes that would be made without making them"},
		{KeyDebug, "debug", "Enable debug logging"},
	}
	for _, f := range boolFlags {
		if err := BindConfigFlag(v, flags, f.key, f.flag, false, f.help, flags.Bool); err != nil {
			return err
		}
	}

	return BindConfigFlag(v, flags, KeyListRetries, "list-retries", 0,
		"Retries for failed listing calls (rate limit and network errors only)", flags.Int)
}

// ResolveConfigFile returns explicit when set, otherwise the default config
// path if a file exists there, otherwise an empty string
func ResolveConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	path, err := GetConfigPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// getBool reads key as a switch that is on only for a case-insensitive
// "true". Values such as "1" or "yes" leave it off.
func getBool(v *viper.Viper, key string) bool {
	return strings.EqualFold(strings.TrimSpace(v.GetString(key)), "true")
}

// Load builds and validates a Config from v. When configFile is not empty
// it is read first; flags and environment variables override its values.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", configFile)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		GitHub: GitHubConfig{
			Owner:  strings.TrimSpace(v.GetString(KeyGitHubOwner)),
			Token:  strings.TrimSpace(v.GetString(KeyGitHubToken)),
			APIURL: strings.TrimSpace(v.GetString(KeyGitHubAPIURL)),
		},
		Gitea: GiteaConfig{
			URL:         strings.TrimRight(strings.TrimSpace(v.GetString(KeyGiteaURL)), "/"),
			Org:         strings.TrimSpace(v.GetString(KeyGiteaOrg)),
			Token:       strings.TrimSpace(v.GetString(KeyGiteaToken)),
			OrgFullName: v.GetString(KeyGiteaOrgFullName),
		},
		CloneWiki:        getBool(v, KeyCloneWiki),
		FilterMode:       FilterMode(strings.TrimSpace(v.GetString(KeyFilterMode))),
		FilterRepoList:   v.GetString(KeyFilterRepoList),
		MirrorInterval:   strings.TrimSpace(v.GetString(KeyMirrorInterval)),
		OrgFailurePolicy: OrgFailurePolicy(strings.TrimSpace(v.GetString(KeyOrgFailurePolicy))),
		ListRetries:      v.GetInt(KeyListRetries),
		DryRun:           getBool(v, KeyDryRun),
		Debug:            getBool(v, KeyDebug),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
