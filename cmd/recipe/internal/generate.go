package internal

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goplus/recipe/internal/archive"
	"github.com/goplus/recipe/internal/pipeline"
	"github.com/spf13/cobra"
)

var generateFlags runFlags
var generateArchive string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate toolchain and dependency files",
	Long: `Generate runs the recipe against the project metadata, the profile and the
resolved dependency graph, and writes the CMake toolchain file, the dependency
discovery files and the package descriptor.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateFlags.register(generateCmd)
	generateCmd.Flags().StringVarP(&generateArchive, "archive", "a", "", "Also pack the generated files into a .tar.xz")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, &generateFlags)
	if err != nil {
		return err
	}
	res, err := s.run(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to configure %s: %w", s.recipe.Name, err)
	}

	dir := s.generatorsDir(res)
	files, err := pipeline.Emit(res, dir)
	if err != nil {
		return fmt.Errorf("failed to write generated files: %w", err)
	}
	s.log.WithField("dir", dir).Infof("wrote %d files", len(files))

	if generateArchive != "" {
		dest, err := archivePath(generateArchive)
		if err != nil {
			return err
		}
		if err := archive.WriteTarXz(dir, dest); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		s.log.WithField("archive", dest).Info("packed generated files")
	}

	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, f))
	}
	return nil
}

// archivePath resolves dest to an absolute path and requires the .tar.xz
// suffix.
func archivePath(dest string) (string, error) {
	if !strings.HasSuffix(dest, ".tar.xz") {
		return "", fmt.Errorf("archive %q must end in .tar.xz", dest)
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive path: %w", err)
	}
	return abs, nil
}
