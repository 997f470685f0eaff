package mirror

import "github.com/rs/zerolog"

const dryRunPrefix = "[DRY RUN] "

// dryRunEvent starts an info event for an action that a dry run only describes
func dryRunEvent(logger *zerolog.Logger) *zerolog.Event {
	return logger.Info().Bool("dry_run", true)
}
