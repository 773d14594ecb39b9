// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/schemer/docs"
	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib"
	"github.com/luthersystems/schemer/lisp/lisplib/libhelp"
	"github.com/luthersystems/schemer/parser"
)

// DocCommand returns a doc command.  Embedders may inject their own
// environment or registry so that their primitives are documented.
func DocCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var sourceFile string
	var missing bool
	var guide bool

	cmd := &cobra.Command{
		Use:   "doc [flags] [NAME]",
		Short: "Show documentation for primitives, constants and definitions",
		Long: `Show built-in documentation for primitives and constants.

With no argument every registered name is listed with the first line of
its documentation.  Use -f to load a source file first; compound
procedures defined there are documented by their parameter list.

Examples:
  schemer doc                      List every primitive and constant
  schemer doc car                  Show docs for car
  schemer doc -f lib.scm my-proc   Load a file, then show docs for my-proc
  schemer doc --missing            List names without documentation
  schemer doc --guide              Print the language reference`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if guide {
				_, err := io.WriteString(out, docs.LangGuide)
				return err
			}
			if missing {
				return docMissing(out, &cfg)
			}
			env, err := docEnv(&cfg, sourceFile)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return libhelp.RenderRegistry(out, env.Runtime.Registry)
			}
			return libhelp.RenderVar(out, env, args[0])
		},
	}

	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a source file before querying documentation.")
	cmd.Flags().BoolVar(&missing, "missing", false,
		"List primitives and constants which have no documentation.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the language reference.")
	return cmd
}

// docEnv returns the environment used for a query.  An injected env is used
// as is.
func docEnv(cfg *cmdConfig, sourceFile string) (*lisp.Env, error) {
	env := cfg.env
	if env == nil {
		reg := cfg.resolveRegistry()
		if reg == nil {
			return docSourceEnv(sourceFile)
		}
		env = lisp.NewEnvRuntime(nil)
		err := lisp.InitializeUserEnv(env,
			lisp.WithRegistry(reg),
			lisp.WithReader(parser.NewReader()),
			lisp.WithStderr(&bytes.Buffer{}),
		)
		if err != nil {
			return nil, err
		}
	}
	return env, loadDocSource(env, sourceFile)
}

func docSourceEnv(sourceFile string) (*lisp.Env, error) {
	env, err := lisplib.NewDocEnv()
	if err != nil {
		return nil, err
	}
	return env, loadDocSource(env, sourceFile)
}

func loadDocSource(env *lisp.Env, sourceFile string) error {
	if sourceFile == "" {
		return nil
	}
	f, err := os.Open(sourceFile) //#nosec G304
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only
	// Output of the loaded program is not documentation.
	stdout := env.Runtime.Stdout
	env.Runtime.Stdout = io.Discard
	defer func() { env.Runtime.Stdout = stdout }()
	if _, err := env.Load(sourceFile, f); err != nil {
		return fmt.Errorf("load %s: %w", sourceFile, err)
	}
	return nil
}

func docMissing(w io.Writer, cfg *cmdConfig) error {
	reg := cfg.resolveRegistry()
	if reg == nil {
		var err error
		reg, err = lisplib.NewRegistry()
		if err != nil {
			return err
		}
	}
	missing := libhelp.CheckMissing(reg)
	for _, m := range missing {
		if _, err := fmt.Fprintf(w, "%s %s\n", m.Kind, m.Name); err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d names have no documentation", len(missing))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
