package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tgp",
	Short: "A typed tree-based genetic programming engine",
	Long: `tgp evolves typed expression trees against a host-supplied fitness
function:
- Describes a textual grammar file's canonical definition layout.
- Runs the bundled symbolic-regression demo, optionally against a dataset
  file, through the evolutionary loop.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
