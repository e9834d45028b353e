package internal

import (
	"os"

	"github.com/fatih/color"
	"github.com/goplus/recipe/internal/logger"
	"github.com/goplus/recipe/recipes/chord"
	"github.com/spf13/cobra"
)

var (
	projectDir string
	profile    string
	recipeName string
	logLevel   string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "recipe",
	Short: "recipe configures C/C++ packages for CMake",
	Long: `recipe turns a package recipe, its metadata and an already resolved
dependency graph into the toolchain and discovery files a CMake build reads.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&projectDir, "dir", "C", ".", "Project root directory")
	pf.StringVar(&profile, "profile", "", "Profile file (default: <dir>/recipe.yaml)")
	pf.StringVarP(&recipeName, "recipe", "r", chord.Name, "Recipe to configure")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.New(os.Stderr, "error", noColor).Error(err)
		os.Exit(1)
	}
}
