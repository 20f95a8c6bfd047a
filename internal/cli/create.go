package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lorehq/create-lore/internal/acquire"
	"github.com/lorehq/create-lore/internal/branding"
	"github.com/lorehq/create-lore/internal/config"
	"github.com/lorehq/create-lore/internal/generate"
	"github.com/lorehq/create-lore/internal/output"
	"github.com/lorehq/create-lore/internal/prompt"
	"github.com/lorehq/create-lore/internal/scaffold"
	"github.com/lorehq/create-lore/internal/tree"
	"github.com/spf13/cobra"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"template": config.KeyTemplate,
	"ref":      config.KeyTemplateRef,
	"policy":   config.KeyFilterPolicy,
	"tools":    config.KeyTools,
}

// instanceLayout locates the config and sticky files of created projects.
var instanceLayout = generate.DefaultLayout

func runCreate(cmd *cobra.Command, f *rootFlags, arg string) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	for name, key := range flagKeys {
		if err := cfg.Viper().BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	tools := settings.Tools
	selected := cmd.Flags().Changed("tools")
	if f.interactive {
		tools, err = prompt.SelectTools(cmd.InOrStdin(), cmd.ErrOrStderr(), config.DefaultTools)
		if err != nil {
			return err
		}
		selected = true
	}

	policy, err := tree.PolicyFor(tree.Mode(settings.FilterPolicy))
	if err != nil {
		return err
	}

	engine, err := scaffold.New(scaffold.Options{
		Source:      sourceFor(settings, cwd),
		Policy:      policy,
		Layout:      instanceLayout,
		SkipHistory: f.noGit,
		Progress:    progress,
	})
	if err != nil {
		return err
	}

	res, err := engine.Run(cmd.Context(), scaffold.Request{
		Target:        arg,
		Cwd:           cwd,
		Tools:         tools,
		ToolsSelected: selected,
	})
	if err != nil {
		return err
	}

	if res.HistoryErr != nil {
		printError(cmd.ErrOrStderr(), res.HistoryErr)
	}
	output.PrintSummary(cmd.OutOrStdout(), summaryFor(arg, res, f.noGit))
	return nil
}

// sourceFor picks the template source: a local override when one is
// configured, otherwise a shallow clone of the release matching this build.
func sourceFor(s *config.Settings, cwd string) acquire.Source {
	if s.Template != "" {
		dir := s.Template
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cwd, dir)
		}
		return &acquire.LocalSource{Dir: dir}
	}

	ref := s.TemplateRef
	if ref == "" {
		ref = acquire.ReleaseRef(buildVersion)
	}
	if s.Transport == config.TransportGit {
		return &acquire.GitCLISource{URL: s.TemplateRepo, Ref: ref}
	}
	return &acquire.GoGitSource{URL: s.TemplateRepo, Ref: ref}
}

// progress shows a spinner on a terminal and a log line otherwise.
func progress(ctx context.Context, title string, action func() error) error {
	if !output.IsTTY() {
		output.Info(title)
	}
	return output.RunWithSpinner(ctx, title, action)
}

func summaryFor(arg string, res *scaffold.Result, noGit bool) output.Summary {
	commit := fmt.Sprintf(`git add -A && git commit -m "Init %s"`, branding.DisplayName())
	if noGit || res.HistoryErr != nil {
		commit = "git init -b main && " + commit
	}
	return output.Summary{
		Name:      res.Config.Name,
		Path:      res.Location.AbsolutePath,
		Version:   res.Config.Version,
		Tools:     res.Config.Tools,
		Files:     res.Files,
		Warnings:  res.Warnings,
		NextSteps: []string{"cd " + arg, commit},
	}
}
