package mirror

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"gitea-mirror/pkg/config"
	"gitea-mirror/pkg/gitea"
	"gitea-mirror/pkg/github"
)

// Syncer runs one reconciliation pass from the source account to the
// target organization
type Syncer struct {
	source SourceLister
	target TargetService
	cfg    config.Config
	logger zerolog.Logger
}

// NewSyncer creates a Syncer. cfg is copied and is expected to have been
// validated.
func NewSyncer(source SourceLister, target TargetService, cfg *config.Config, logger zerolog.Logger) *Syncer {
	return &Syncer{
		source: source,
		target: target,
		cfg:    *cfg,
		logger: logger,
	}
}

// Run lists and filters the source repositories, ensures the organization,
// lists the existing mirrors and creates the missing ones one at a time.
//
// Listing failures end the run with an error. Mirror failures are logged,
// recorded in the report and do not stop the remaining repositories.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	report := &Report{DryRun: s.cfg.DryRun, Org: OrgStateUnknown}

	repos, err := s.source.ListUserRepositories(ctx, s.cfg.GitHub.Owner)
	if err != nil {
		return report, fmt.Errorf("failed to list GitHub repositories: %w", err)
	}
	report.Fetched = len(repos)
	s.logger.Info().Int("count", len(repos)).
		Msgf("Fetched %d repositories from GitHub.", len(repos))

	repos = Filter(repos, s.cfg.FilterMode, s.cfg.FilterNames())
	report.Selected = len(repos)
	s.logger.Info().Int("count", len(repos)).Str("filter_mode", string(s.cfg.FilterMode)).
		Msgf("%d repositories after applying filter.", len(repos))
	for _, repo := range repos {
		s.logger.Debug().Str("repo", repo.Name).Msg("Selected GitHub repository")
	}

	ensurer := NewOrgEnsurer(s.target, s.cfg.Gitea.Org, s.cfg.Gitea.OrgFullName, s.cfg.DryRun, s.logger)
	report.Org, report.OrgErr = ensurer.Ensure(ctx)
	if report.Org.Failed() && s.cfg.OrgFailurePolicy == config.OrgFailureAbort {
		return report, fmt.Errorf("organization %s is unavailable: %w", s.cfg.Gitea.Org, report.OrgErr)
	}

	existing, err := s.listExisting(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list Gitea repositories: %w", err)
	}
	report.Existing = len(existing)

	mirrored := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		mirrored[name] = struct{}{}
	}

	for _, repo := range repos {
		if _, ok := mirrored[repo.Name]; ok {
			s.logger.Debug().Str("repo", repo.Name).
				Msgf("Repository '%s' already exists in Gitea. Skipping.", repo.Name)
			report.record(repo.Name, OutcomeAlreadyMirrored, nil)
			continue
		}

		outcome, err := s.mirror(ctx, repo)
		report.record(repo.Name, outcome, err)
	}

	s.logger.Info().
		Int("mirrored", report.Count(OutcomeMirrored)).
		Int("skipped", report.Count(OutcomeAlreadyMirrored)).
		Int("failed", report.Count(OutcomeFailed)).
		Msg("Mirror completed.")

	return report, nil
}

// listExisting returns the repository names already present in the
// organization. A dry run returns nothing, since the organization may not
// have been created.
func (s *Syncer) listExisting(ctx context.Context) ([]string, error) {
	if s.cfg.DryRun {
		dryRunEvent(&s.logger).Msg(dryRunPrefix + "Skipping fetching Gitea repos in dry run mode.")
		return nil, nil
	}

	names, err := s.target.ListOrgRepositories(ctx, s.cfg.Gitea.Org)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(names)).Msgf("Fetched %d repositories from Gitea.", len(names))
	for _, name := range names {
		s.logger.Debug().Str("repo", name).Msg("Existing Gitea repository")
	}
	return names, nil
}

func (s *Syncer) mirror(ctx context.Context, repo github.Repository) (RepoOutcome, error) {
	if s.cfg.DryRun {
		dryRunEvent(&s.logger).Str("repo", repo.Name).
			Msgf("%sWould mirror '%s' to %s/%s/%s", dryRunPrefix,
				repo.CloneURL, s.target.BaseURL(), s.cfg.Gitea.Org, repo.Name)
		return OutcomeWouldMirror, nil
	}

	err := s.target.MigrateRepository(ctx, s.mirrorOptions(repo))
	if err != nil {
		s.logger.Error().Err(err).Str("repo", repo.Name).
			Msgf("Error occurred when mirroring repository '%s'", repo.Name)
		return OutcomeFailed, err
	}

	s.logger.Info().Str("repo", repo.Name).Msgf("Repository '%s' mirrored to Gitea.", repo.Name)
	return OutcomeMirrored, nil
}

func (s *Syncer) mirrorOptions(repo github.Repository) gitea.MirrorOptions {
	return gitea.MirrorOptions{
		CloneAddr:      repo.CloneURL,
		RepoName:       repo.Name,
		Owner:          s.cfg.Gitea.Org,
		MirrorInterval: s.cfg.MirrorInterval,
		AuthToken:      s.cfg.GitHub.Token,
		Wiki:           s.cfg.CloneWiki,
	}
}
