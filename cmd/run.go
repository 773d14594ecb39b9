// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib"
	"github.com/luthersystems/schemer/parser"
)

var (
	runExpression  bool
	runReader      string
	runProfileFile string
)

// errRunFailed is returned when one or more top-level forms failed.  The
// failures have already been reported.
var errRunFailed = errors.New("run failed")

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run scheme code",
	Long: `Run scheme code supplied via the command line or in files.

Each top-level form is evaluated in turn in one global environment.  The
value of a form is printed unless it is () or --print=false is given.  A
form which fails is reported and evaluation continues with the next form;
the exit status is non-zero if any form failed.

Examples:
  schemer run prog.scm
  schemer run -e '(define (sq x) (* x x))' '(sq 12)'
  schemer run --profile callgrind --profile-file out.callgrind prog.scm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input: give one or more files or use -e")
		}
		return runExec(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func runExec(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reader, err := parser.NewReaderNamed(runReader)
	if err != nil {
		return err
	}
	reg, err := lisplib.NewRegistry()
	if err != nil {
		return err
	}
	env := lisp.NewEnvRuntime(nil)
	err = lisp.InitializeUserEnv(env,
		lisp.WithRegistry(reg),
		lisp.WithReader(reader),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
		lisp.WithMaximumStackHeight(viper.GetInt(keyMaxStackHeight)),
	)
	if err != nil {
		return fmt.Errorf("initialize user env: %w", err)
	}

	complete, err := startProfile(ctx, env.Runtime, viper.GetString(keyProfile), runProfileFile, stderr)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	session := lisp.NewSession(env)
	session.Print = viper.GetBool(keyPrint)
	session.Report = func(err error) { renderLispError(stderr, err) }

	var failures int
	for _, arg := range args {
		n, err := runSource(session, reader, arg)
		failures += n
		if err != nil {
			_ = complete()
			return err
		}
	}
	if err := complete(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if failures > 0 {
		return errRunFailed
	}
	return nil
}

// runSource evaluates the forms of a single file or -e expression.  A source
// which does not read is reported as one failure.
func runSource(session *lisp.Session, reader lisp.Reader, arg string) (int, error) {
	var exprs []lisp.Expression
	var err error
	if runExpression {
		exprs, err = reader.Read("<expr>", strings.NewReader(arg))
	} else {
		var f *os.File
		f, err = os.Open(arg) //#nosec G304
		if err != nil {
			return 0, err
		}
		exprs, err = reader.Read(arg, f)
		_ = f.Close()
	}
	if err != nil {
		session.Report(err)
		return 1, nil
	}
	src := lisp.SliceSource(exprs)
	return session.Run(&src)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as scheme expressions instead of file names.")
	runCmd.Flags().StringVar(&runReader, "reader", parser.ReaderCombinator,
		`Reader used to parse source: "combinator" or "parsec".`)
	runCmd.Flags().Bool(keyPrint, true,
		"Print the value of each top-level form.")
	runCmd.Flags().String(keyProfile, profileNone,
		fmt.Sprintf("Profile procedure applications: %s.", strings.Join(profileModes, ", ")))
	runCmd.Flags().StringVar(&runProfileFile, "profile-file", "",
		"Destination of profile output.")
	mustBind(keyPrint, runCmd.Flags().Lookup(keyPrint))
	mustBind(keyProfile, runCmd.Flags().Lookup(keyProfile))
}
