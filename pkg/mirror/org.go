package mirror

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// OrgState is the outcome of making sure the target organization exists
type OrgState string

const (
	OrgStateUnknown      OrgState = "unknown"
	OrgStateExists       OrgState = "exists"
	OrgStateCreated      OrgState = "created"
	OrgStateWouldCreate  OrgState = "would_create"
	OrgStateProbeFailed  OrgState = "probe_failed"
	OrgStateCreateFailed OrgState = "create_failed"
)

// Failed reports whether the organization could be neither confirmed nor created
func (s OrgState) Failed() bool {
	return s == OrgStateProbeFailed || s == OrgStateCreateFailed
}

// OrgEnsurer makes sure the organization that owns the mirrors exists
type OrgEnsurer struct {
	target   TargetService
	org      string
	fullName string
	dryRun   bool
	logger   zerolog.Logger
}

// NewOrgEnsurer creates an ensurer for org on target
func NewOrgEnsurer(target TargetService, org, fullName string, dryRun bool, logger zerolog.Logger) *OrgEnsurer {
	return &OrgEnsurer{
		target:   target,
		org:      org,
		fullName: fullName,
		dryRun:   dryRun,
		logger:   logger,
	}
}

// Ensure probes for the organization and creates it when the probe says it
// is absent. Failures are logged and returned along with the final state;
// whether they stop the run is up to the caller.
func (e *OrgEnsurer) Ensure(ctx context.Context) (OrgState, error) {
	exists, err := e.target.OrgExists(ctx, e.org)
	if err != nil {
		e.logger.Error().Err(err).Str("org", e.org).
			Msgf("Error checking Gitea organization '%s'", e.org)
		return OrgStateProbeFailed, fmt.Errorf("checking organization %s: %w", e.org, err)
	}

	if exists {
		e.logger.Info().Str("org", e.org).Msgf("Gitea organization '%s' exists.", e.org)
		return OrgStateExists, nil
	}

	if e.dryRun {
		dryRunEvent(&e.logger).Str("org", e.org).
			Msgf("%sWould create Gitea organization '%s'", dryRunPrefix, e.org)
		return OrgStateWouldCreate, nil
	}

	if err := e.target.CreateOrg(ctx, e.org, e.fullName); err != nil {
		e.logger.Error().Err(err).Str("org", e.org).
			Msgf("Error creating Gitea organization '%s'", e.org)
		return OrgStateCreateFailed, fmt.Errorf("creating organization %s: %w", e.org, err)
	}

	e.logger.Info().Str("org", e.org).Msgf("Gitea organization '%s' created.", e.org)
	return OrgStateCreated, nil
}
