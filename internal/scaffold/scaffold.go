package scaffold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/lorehq/create-lore/internal/acquire"
	lerrors "github.com/lorehq/create-lore/internal/errors"
	"github.com/lorehq/create-lore/internal/generate"
	"github.com/lorehq/create-lore/internal/history"
	"github.com/lorehq/create-lore/internal/output"
	"github.com/lorehq/create-lore/internal/target"
	"github.com/lorehq/create-lore/internal/tree"
)

// Request is one invocation of the engine.
type Request struct {
	// Target is the raw name or path argument.
	Target string

	// Cwd is the invocation directory the target must stay inside.
	Cwd string

	// Tools is the selected agent tool list.
	Tools []string

	// ToolsSelected records that Tools came from the operator rather than a
	// default.
	ToolsSelected bool
}

// Result describes a successful run.
type Result struct {
	Location *target.Location
	Config   generate.InstanceConfig
	Strategy generate.Strategy

	// Source describes where the template came from.
	Source string

	// Removed are the template paths the filter dropped.
	Removed []string

	// Files are the generated paths, relative to the instance root.
	Files []string

	// Warnings are non-fatal problems worth showing the operator.
	Warnings []string

	// HistoryErr is set when history initialization failed. The instance is
	// otherwise complete.
	HistoryErr error
}

// ProgressFunc runs action while reporting title to the operator.
type ProgressFunc func(ctx context.Context, title string, action func() error) error

// Options are the static inputs of an Engine.
type Options struct {
	Source acquire.Source
	Policy tree.Policy
	Layout generate.Layout

	// SkipHistory leaves the instance without a repository.
	SkipHistory bool

	// Now returns the creation time; nil means time.Now.
	Now func() time.Time

	// Progress wraps acquisition; nil runs it directly.
	Progress ProgressFunc
}

// Engine runs scaffold requests against a fixed template source and policy.
type Engine struct {
	opts Options
}

// New validates opts and returns an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, errors.New("no template source configured")
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Progress == nil {
		opts.Progress = func(_ context.Context, _ string, action func() error) error { return action() }
	}
	return &Engine{opts: opts}, nil
}

// Run scaffolds one instance. Every error is a *lerrors.DetailError.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	loc, err := target.Validate(req.Target, req.Cwd)
	if err != nil {
		return nil, err
	}
	output.Debug("target validated", "step", "validate", "path", loc.AbsolutePath, "name", loc.ProjectName)

	scratch, err := acquire.NewScratch()
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrAcquisition, lerrors.OutcomeNothingCreated, err, "preparing scratch directory")
	}
	defer func() {
		if rmErr := scratch.Remove(); rmErr != nil {
			output.Warn("could not remove scratch directory", "path", scratch.Path, "err", rmErr)
		}
	}()
	output.Debug("scratch created", "step", "acquire", "path", scratch.Path, "source", e.opts.Source)

	title := fmt.Sprintf("Fetching template from %s", e.opts.Source)
	err = e.opts.Progress(ctx, title, func() error {
		return scratch.Fill(ctx, e.opts.Source)
	})
	if err != nil {
		de := lerrors.Wrap(lerrors.ErrAcquisition, lerrors.OutcomeNothingCreated, err, "acquiring template")
		var ae *acquire.Error
		if errors.As(err, &ae) {
			de.WithHint(ae.Hint())
		}
		return nil, de
	}

	fs := osfs.New(scratch.Path)
	if err := tree.StripHistory(fs); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrMaterialize, lerrors.OutcomeNothingCreated, err, "removing template history")
	}
	removed, err := tree.Filter(fs, e.opts.Policy)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrMaterialize, lerrors.OutcomeNothingCreated, err, "filtering template")
	}
	output.Debug("template filtered", "step", "filter", "policy", e.opts.Policy.Mode, "removed", len(removed))

	if err := ctx.Err(); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrMaterialize, lerrors.OutcomeNothingCreated, err, "scaffold cancelled")
	}
	if err := target.CheckAbsent(loc.AbsolutePath); err != nil {
		return nil, err
	}
	if err := tree.Copy(tree.Disk(scratch.Path), tree.Disk(loc.AbsolutePath)); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrMaterialize, lerrors.OutcomeIncomplete, err, "copying template into place").
			WithPath(loc.AbsolutePath)
	}
	output.Debug("instance materialized", "step", "materialize", "path", loc.AbsolutePath)

	gen, err := generate.New(e.opts.Layout).Generate(generate.Input{
		Root:          loc.AbsolutePath,
		ProjectName:   loc.ProjectName,
		Created:       e.opts.Now(),
		Tools:         req.Tools,
		ToolsSelected: req.ToolsSelected,
	})
	if err != nil {
		return nil, err
	}
	output.Debug("config generated", "step", "generate", "strategy", gen.Strategy, "files", len(gen.Files))

	res := &Result{
		Location: loc,
		Config:   gen.Config,
		Strategy: gen.Strategy,
		Source:   e.opts.Source.String(),
		Removed:  removed,
		Files:    gen.Files,
	}
	for _, s := range gen.Skipped {
		res.Warnings = append(res.Warnings, fmt.Sprintf("template has no %s; skipped", s))
	}

	if e.opts.SkipHistory {
		return res, nil
	}
	if err := history.Init(loc.AbsolutePath); err != nil {
		res.HistoryErr = lerrors.Wrap(lerrors.ErrHistoryInit, lerrors.OutcomeNoHistory, err, "initializing version control").
			WithPath(loc.AbsolutePath).
			WithHint("Run 'git init' in the project directory.")
		res.Warnings = append(res.Warnings, res.HistoryErr.Error())
		return res, nil
	}
	output.Debug("history initialized", "step", "history", "branch", history.DefaultBranch)

	return res, nil
}
