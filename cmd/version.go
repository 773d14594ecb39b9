// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luthersystems/schemer/lisp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the interpreter version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "schemer %s\n", lisp.Version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
