package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitea-mirror",
		Short: "Mirror the GitHub repositories of an account into a Gitea organization",
		Long: `gitea-mirror keeps a Gitea organization populated with pull mirrors of the
repositories owned by a GitHub account.

Each run lists the account's repositories, applies the include or exclude
filter, creates the Gitea organization when it is missing and asks Gitea to
mirror every repository it does not have yet. Gitea keeps the mirrors up to
date on its own schedule afterwards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is ~/.gitea-mirror/config.yaml when it exists)")

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
