package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lorehq/create-lore/internal/branding"
	"github.com/lorehq/create-lore/internal/config"
	"github.com/lorehq/create-lore/internal/output"
	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

type rootFlags struct {
	configPath  string
	template    string
	ref         string
	policy      string
	tools       []string
	interactive bool
	verbose     bool
	noGit       bool
}

// usageError is a command-line mistake; the usage text is printed with it.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// NewRootCmd builds the create-lore command.
func NewRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " <project-name|path>",
		Short: branding.Description(),
		Long: branding.Description() + `.

Creates a new directory from the ` + branding.DisplayName() + ` template, strips the template's
development assets and history, generates instance configuration, and starts
a fresh git repository on branch main.

Examples:
  ` + branding.CLIName() + ` my-lore
  ` + branding.CLIName() + ` work/my-lore --tools claude,cursor
  ` + branding.EnvVar(config.KeyTemplate) + `=../lore ` + branding.CLIName() + ` scratch-lore`,
		Version:       buildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{msg: fmt.Sprintf("expected one project name or path, got %d", len(args))}
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetupLogging(cmd.ErrOrStderr(), f.verbose)
			output.Debug("starting", "version", buildVersion, "commit", buildCommit, "built", buildDate)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, &f, args[0])
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Config file (default "+config.FilePath()+")")
	flags.StringVar(&f.template, "template", "", "Local template directory to copy instead of cloning")
	flags.StringVar(&f.ref, "ref", "", "Template tag or branch (default: the release matching this version)")
	flags.StringVar(&f.policy, "policy", "", "Dev-asset filter policy: allowlist or denylist")
	flags.StringSliceVar(&f.tools, "tools", nil, "Agent tools to configure (comma-separated)")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "Choose agent tools interactively")
	flags.BoolVar(&f.verbose, "verbose", false, "Enable debug logging")
	flags.BoolVar(&f.noGit, "no-git", false, "Skip git repository initialization")

	return cmd
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the run; scratch cleanup still happens.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(cmd.ErrOrStderr())
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		}
	}
	return err
}
