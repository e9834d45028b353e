package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/goplus/recipe/internal/config"
	"github.com/goplus/recipe/internal/layout"
	"github.com/goplus/recipe/internal/logger"
	"github.com/goplus/recipe/internal/pipeline"
	"github.com/goplus/recipe/mod/graph"
	"github.com/goplus/recipe/recipe"
	"github.com/goplus/recipe/recipes"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runFlags are the flags shared by the commands that run the pipeline.
type runFlags struct {
	options  []string
	settings []string
	graph    string
	output   string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.options, "option", "O", nil, "Option assignment key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&f.settings, "setting", "s", nil, "Setting assignment key=value, e.g. compiler.cppstd=20 (repeatable)")
	cmd.Flags().StringVar(&f.graph, "graph", "", "Resolved dependency graph file (YAML)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Generators directory (default: build/<build_type>/generators)")
}

// session is the state of one command invocation.
type session struct {
	root   string
	cfg    *config.Config
	recipe *recipe.Recipe
	log    *logrus.Entry
}

func openSession(cmd *cobra.Command, flags *runFlags) (*session, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project dir: %w", err)
	}
	r, err := recipes.Lookup(recipeName)
	if err != nil {
		return nil, err
	}
	opts := config.LoadOptions{Root: root, Profile: profile}
	for _, spec := range r.Options {
		opts.OptionKeys = append(opts.OptionKeys, spec.Key)
	}
	if flags != nil {
		opts.Options = flags.options
		opts.Settings = flags.settings
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	if flags != nil {
		if flags.graph != "" {
			cfg.Graph = flags.graph
		}
		if flags.output != "" {
			cfg.Output = flags.output
		}
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log := logger.New(cmd.ErrOrStderr(), level, noColor).WithField("run", uuid.NewString())
	if cfg.File() != "" {
		log.WithField("profile", cfg.File()).Debug("profile loaded")
	}
	return &session{root: root, cfg: cfg, recipe: r, log: log}, nil
}

func (s *session) readGraph() (*graph.Graph, error) {
	if s.cfg.Graph == "" {
		s.log.Warn("no dependency graph given, configuring without dependencies")
		return nil, nil
	}
	path := config.Path(s.root, s.cfg.Graph)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency graph: %w", err)
	}
	return graph.Parse(path, data)
}

func (s *session) run(ctx context.Context) (*pipeline.Result, error) {
	g, err := s.readGraph()
	if err != nil {
		return nil, err
	}
	return pipeline.Run(ctx, pipeline.Input{
		Recipe:      s.recipe,
		Project:     recipe.NewProject(s.root),
		MetadataDir: s.cfg.Metadata,
		Env:         s.cfg.Environment(),
		Options:     s.cfg.Options,
		Graph:       g,
		Logger:      s.log,
	})
}

// generatorsDir returns where the artifacts of res are written.
func (s *session) generatorsDir(res *pipeline.Result) string {
	if s.cfg.Output != "" {
		return config.Path(s.root, s.cfg.Output)
	}
	return layout.GeneratorsDir(s.root, res.BuildType())
}
