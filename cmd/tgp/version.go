package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set by the release process; it stays "dev" in a source checkout.
var version = "dev"

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the tgp version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
