package internal

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/goplus/recipe/recipes"
	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the options of a recipe",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(cmd *cobra.Command, args []string) error {
	r, err := recipes.Lookup(recipeName)
	if err != nil {
		return err
	}
	bold := color.New(color.Bold)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPTION\tDOMAIN\tDEFAULT")
	for _, spec := range r.Options {
		fmt.Fprintf(w, "%s\t%s\t%s\n", bold.Sprint(spec.Key), spec.Domain, spec.Default)
	}
	return w.Flush()
}
