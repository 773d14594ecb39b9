// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive scheme REPL",
	Long: `Start an interactive read-eval-print loop.

The standard library is loaded automatically.  An expression may span
several lines; the prompt changes while an expression is incomplete.  Press
Ctrl-C to discard an incomplete expression and Ctrl-D to exit.  History is
kept in ~/.schemer_history and tab completes defined names.

Example REPL session:
  schemer> (define (square x) (* x x))
  schemer> (square 5)
  25
  schemer> (help 'car)
  primitive (car ...) [1 arguments]
    Returns the first element of a pair.`,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithColor(colorMode()),
			repl.WithEnvConfig(lisp.WithMaximumStackHeight(viper.GetInt(keyMaxStackHeight))),
		)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
