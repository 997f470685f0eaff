package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gitea-mirror/internal/logging"
	"gitea-mirror/pkg/config"
	"gitea-mirror/pkg/gitea"
	"gitea-mirror/pkg/github"
	"gitea-mirror/pkg/mirror"
)

func newSyncCmd() *cobra.Command {
	v := viper.New()
	config.SetViperDefaults(v)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create Gitea mirrors for GitHub repositories that are not mirrored yet",
		Long: `Run one mirror pass from a GitHub account to a Gitea organization.

Every setting can be given as a flag, as an environment variable or in the
config file, in that order of precedence.

ENVIRONMENT:
  GITHUB_OWNER, GITHUB_TOKEN          source account and token (required)
  GITEA_URL, GITEA_ORG, GITEA_TOKEN   target instance and organization (required)
  FILTER_MODE, FILTER_REPO_LIST       include or exclude the listed repositories
  MIRROR_INTERVAL                     refresh interval of new mirrors (default 8h)
  CLONE_WIKI, DRY_RUN, DEBUG          true or false

Repositories that fail to mirror are reported and do not stop the run. The
command only fails on invalid configuration or when a listing call fails.

Examples:
  # Mirror everything except two repositories
  GITHUB_OWNER=octo GITHUB_TOKEN=... GITEA_URL=https://git.example.com \
  GITEA_ORG=mirrors GITEA_TOKEN=... gitea-mirror sync \
    --filter-mode exclude --filter-repo-list "scratch,dotfiles"

  # Preview the changes
  gitea-mirror sync --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, v)
		},
	}

	cobra.CheckErr(config.RegisterFlags(v, cmd.Flags()))

	return cmd
}

func runSync(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v, config.ResolveConfigFile(configFile))
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Debug)
	ctx := logger.WithContext(cmd.Context())

	source, target, err := newClients(cfg)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("owner", cfg.GitHub.Owner).
		Str("gitea_url", cfg.Gitea.URL).
		Str("org", cfg.Gitea.Org).
		Bool("dry_run", cfg.DryRun).
		Msg("Starting mirror run")

	report, err := mirror.NewSyncer(source, target, cfg, logger).Run(ctx)
	if err != nil {
		return err
	}

	if err := report.Err(); err != nil {
		var partial *mirror.PartialFailureError
		if errors.As(err, &partial) {
			zerolog.Ctx(ctx).Warn().
				Strs("failed", partial.GetFailedOperations()).
				Msg(partial.Error())
		}
	}

	return nil
}

func newClients(cfg *config.Config) (*github.Client, *gitea.Client, error) {
	retry := github.DefaultRetryConfig()
	retry.MaxRetries = cfg.ListRetries

	source, err := github.NewClient(cfg.GitHub.Token,
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithRetryConfig(retry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	target, err := gitea.NewClient(cfg.Gitea.URL, cfg.Gitea.Token)
	if err != nil {
		return nil, nil, err
	}

	return source, target, nil
}
