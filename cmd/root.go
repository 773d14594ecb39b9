// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.  Each may be set in the config file, as a flag, or
// through an environment variable with the SCHEMER_ prefix (e.g.
// SCHEMER_MAX_STACK_HEIGHT).
const (
	keyColor          = "color"
	keyMaxStackHeight = "max-stack-height"
	keyPrint          = "print"
	keyProfile        = "profile"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schemer",
	Short: "A small interpreter for a Scheme dialect",
	Long: `schemer interprets a small dialect of Scheme.  Source is read one
top-level form at a time and each form is evaluated in a single global
environment.

Getting started:
  schemer run file.scm           Run a source file
  schemer run -e '(+ 1 2)'       Evaluate an expression
  schemer repl                   Start an interactive REPL
  schemer doc car                Show documentation for a primitive
  schemer doc                    List every primitive and constant

Language overview:
  Special forms are quote, lambda, define, set!, if, begin, cond and let.
  The empty list () is the unit value and prints as ().  Booleans are the
  symbols true and false; every value other than false is true.
  Procedures are defined with (define (name args) body) or
  (define name (lambda (args) body)).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.schemer.yaml)")
	rootCmd.PersistentFlags().String(keyColor, "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().Int(keyMaxStackHeight, 0,
		"Maximum call stack height before a stack-overflow error (0 is unlimited).")
	mustBind(keyColor, rootCmd.PersistentFlags().Lookup(keyColor))
	mustBind(keyMaxStackHeight, rootCmd.PersistentFlags().Lookup(keyMaxStackHeight))
	viper.SetDefault(keyPrint, true)
	viper.SetDefault(keyProfile, profileNone)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".schemer" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".schemer")
		}
	}

	viper.SetEnvPrefix("SCHEMER")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
