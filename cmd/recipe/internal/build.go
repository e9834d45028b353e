package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/recipe/internal/layout"
	"github.com/goplus/recipe/internal/pipeline"
	"github.com/spf13/cobra"
)

var buildFlags runFlags
var buildVerbose bool
var buildInstall string
var buildGenerator string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate, then configure, build and install with CMake",
	Long: `Build runs generate and hands the generated toolchain file to CMake to
configure, build and install the project.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildFlags.register(buildCmd)
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Show CMake output")
	buildCmd.Flags().StringVar(&buildInstall, "prefix", "", "Install prefix (default: build/<build_type>/install)")
	buildCmd.Flags().StringVarP(&buildGenerator, "generator", "G", "", "CMake generator")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, &buildFlags)
	if err != nil {
		return err
	}
	res, err := s.run(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to configure %s: %w", s.recipe.Name, err)
	}
	genDir := s.generatorsDir(res)
	if _, err := pipeline.Emit(res, genDir); err != nil {
		return fmt.Errorf("failed to write generated files: %w", err)
	}

	buildType := res.BuildType()
	installDir := layout.InstallDir(s.root, buildType)
	if buildInstall != "" {
		if installDir, err = filepath.Abs(buildInstall); err != nil {
			return fmt.Errorf("failed to resolve install prefix: %w", err)
		}
	}
	driver, err := res.Driver(s.root, layout.BuildDir(s.root, buildType), installDir)
	if err != nil {
		return err
	}
	driver.Toolchain(filepath.Join(genDir, pipeline.ToolchainFile))
	driver.Generator(buildGenerator)
	driver.Define("CMAKE_PREFIX_PATH", genDir)
	for _, p := range res.Deps.Packages() {
		if p.Node.PackageFolder != "" {
			driver.Use(p.Node.PackageFolder)
		}
	}

	// Silence subprocess output unless asked for it.
	if !buildVerbose {
		savedStdout, savedStderr := os.Stdout, os.Stderr
		devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("failed to open devnull: %w", err)
		}
		os.Stdout, os.Stderr = devNull, devNull
		defer func() {
			devNull.Close()
			os.Stdout, os.Stderr = savedStdout, savedStderr
		}()
	}

	s.log.WithField("build_type", buildType).Info("configuring")
	if err := driver.Configure(); err != nil {
		return fmt.Errorf("cmake configure failed: %w", err)
	}
	s.log.Info("building")
	if err := driver.Build(); err != nil {
		return fmt.Errorf("cmake build failed: %w", err)
	}
	if err := driver.Install(); err != nil {
		return fmt.Errorf("cmake install failed: %w", err)
	}
	s.log.WithField("prefix", driver.OutputDir()).Info("installed")
	return nil
}
