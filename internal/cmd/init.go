package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gitea-mirror/pkg/config"
)

var initPath string

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize gitea-mirror configuration",
		Long: `Create a configuration file for gitea-mirror.

The command asks for the GitHub account, the Gitea instance and the tokens
for both, and writes them to ~/.gitea-mirror/config.yaml unless --path is
given. Tokens are read without echo when stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().StringVar(&initPath, "path", "", "Where to write the config file (default is ~/.gitea-mirror/config.yaml)")

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	configPath := initPath
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout(), stdin: cmd.InOrStdin()}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(p.out, "⚠️  Configuration file already exists at: %s\n", configPath)
		answer, err := p.ask("Do you want to overwrite it? (y/N)", "")
		if err != nil {
			return err
		}
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(p.out, "Configuration initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		GitHub: config.GitHubConfig{APIURL: config.DefaultGitHubAPIURL},
		Gitea: config.GiteaConfig{
			OrgFullName: config.DefaultOrgFullName,
		},
		FilterMode:       config.DefaultFilterMode,
		MirrorInterval:   config.DefaultMirrorInterval,
		OrgFailurePolicy: config.DefaultOrgFailurePolicy,
	}

	var err error
	if cfg.GitHub.Owner, err = p.ask("GitHub owner", ""); err != nil {
		return err
	}
	if cfg.GitHub.Token, err = p.secret("GitHub token"); err != nil {
		return err
	}
	if cfg.Gitea.URL, err = p.ask("Gitea URL", ""); err != nil {
		return err
	}
	cfg.Gitea.URL = strings.TrimRight(cfg.Gitea.URL, "/")
	if cfg.Gitea.Org, err = p.ask("Gitea organization", cfg.GitHub.Owner); err != nil {
		return err
	}
	if cfg.Gitea.Token, err = p.secret("Gitea token"); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(p.out, "⚠️  %v\n", err)
		fmt.Fprintln(p.out, "The missing settings can be added to the file or given as environment variables.")
	}

	if err := cfg.SaveConfigToPath(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(p.out, "✅ Configuration file created at: %s\n", configPath)
	fmt.Fprintln(p.out, "📝 Edit the file to set a repository filter or change the mirror interval.")

	return nil
}

type prompter struct {
	in    *bufio.Reader
	out   io.Writer
	stdin io.Reader
}

func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// secret reads a value without echoing it when stdin is a terminal
func (p *prompter) secret(label string) (string, error) {
	f, ok := p.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.ask(label, "")
	}

	fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(string(b)), nil
}
