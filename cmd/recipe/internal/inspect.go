package internal

import (
	"fmt"

	"github.com/goplus/recipe/internal/metadata"
	"github.com/goplus/recipe/internal/pkginfo"
	"github.com/goplus/recipe/recipe"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the declaration of a recipe as YAML",
	Long: `Inspect prints the identity, requirements, toolchain variables, target
overrides and packaging descriptor of the recipe, reading the identity from the
project metadata.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type inspectOverride struct {
	Target   string `yaml:"target"`
	Property string `yaml:"property"`
	Value    string `yaml:"value"`
}

type inspectOutput struct {
	Name        string             `yaml:"name"`
	Version     string             `yaml:"version"`
	License     string             `yaml:"license,omitempty"`
	URL         string             `yaml:"url,omitempty"`
	Description string             `yaml:"description,omitempty"`
	MinCppStd   string             `yaml:"min_cppstd,omitempty"`
	Requires    []string           `yaml:"requires"`
	Variables   []string           `yaml:"variables"`
	Overrides   []inspectOverride  `yaml:"overrides,omitempty"`
	Package     pkginfo.Descriptor `yaml:"package"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, nil)
	if err != nil {
		return err
	}
	id, err := metadata.New(recipe.NewProject(s.root), s.cfg.Metadata).Load(s.recipe.Name)
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	desc, err := pkginfo.Describe(id, s.recipe.Package)
	if err != nil {
		return err
	}

	out := inspectOutput{
		Name:        id.Name,
		Version:     id.Version,
		License:     id.License,
		URL:         id.URL,
		Description: id.Description,
		MinCppStd:   s.recipe.MinCppStd,
		Package:     desc,
	}
	for _, dep := range s.recipe.Requires.Deps() {
		out.Requires = append(out.Requires, dep.String())
	}
	tc := s.recipe.Toolchain
	out.Variables = append(out.Variables, tc.VersionVar)
	for _, v := range tc.Env {
		out.Variables = append(out.Variables, v.Name)
	}
	for _, v := range tc.Options {
		out.Variables = append(out.Variables, v.Name)
	}
	for _, o := range s.recipe.Overrides {
		out.Overrides = append(out.Overrides, inspectOverride(o))
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	return enc.Close()
}
