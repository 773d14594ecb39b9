// Copyright © 2018 The ELPS authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib"
	"github.com/luthersystems/schemer/parser"
	"github.com/luthersystems/schemer/parser/syntax"
)

type config struct {
	stdin  io.ReadCloser
	stdout io.Writer
	stderr io.WriteCloser
	color  diagnostic.ColorMode
	envs   []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout allows overriding the destination of program output and
// printed values.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithEnvConfig appends configuration applied to the environment created by
// RunRepl.
func WithEnvConfig(cfg ...lisp.Config) Option {
	return func(c *config) {
		c.envs = append(c.envs, cfg...)
	}
}

// RunRepl runs a simple repl in a vanilla environment with the standard
// library loaded.
func RunRepl(prompt string, opts ...Option) {
	env := lisp.NewEnvRuntime(nil)

	reg, err := lisplib.NewRegistry()
	if err != nil {
		errlnf("Stdlib initialization failure: %v", err)
		os.Exit(1)
	}
	envOpts := []lisp.Config{
		lisp.WithRegistry(reg),
		lisp.WithReader(parser.NewReader()),
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	if cfg.stdout != nil {
		envOpts = append(envOpts, lisp.WithStdout(cfg.stdout))
	}
	envOpts = append(envOpts, cfg.envs...)

	err = lisp.InitializeUserEnv(env, envOpts...)
	if err != nil {
		errlnf("Language initialization failure: %v", err)
		os.Exit(1)
	}

	RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a global environment.  The cont
// prompt is shown while an expression spans several lines.
func RunEnv(env *lisp.Env, prompt, cont string, opts ...Option) {
	if env.Parent == nil || !env.Parent.IsEmpty() {
		errlnf("REPL environment is not a global environment.")
		os.Exit(1)
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	if cfg.stdout != nil {
		env.Runtime.Stdout = cfg.stdout
	}

	histFile := historyPath()
	ensureHistoryFilePermissions(histFile)
	rlCfg := &readline.Config{
		Stdout:            env.Runtime.Stderr,
		Stderr:            env.Runtime.Stderr,
		Prompt:            prompt,
		HistoryFile:       histFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}

	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	lines := &promptLines{rl: rl, prompt: prompt, cont: cont}
	lines.reader = syntax.NewExpressionReader(lines)

	session := lisp.NewSession(env)
	session.Report = func(err error) {
		renderError(env.Runtime.Stderr, err, cfg.color)
	}
	_, err = session.Run(lines.reader)
	if err != nil {
		fmt.Fprintln(env.Runtime.Stderr, err) //nolint:errcheck // best-effort error display
	}
}

// promptLines reads lines from readline, prompting for continuation while
// the reader holds an incomplete expression.  An interrupt discards the
// incomplete expression.
type promptLines struct {
	rl     *readline.Instance
	prompt string
	cont   string
	reader *syntax.ExpressionReader
}

func (l *promptLines) ReadLine() (string, error) {
	for {
		if l.reader.Pending() {
			l.rl.SetPrompt(l.cont)
		} else {
			l.rl.SetPrompt(l.prompt)
		}
		line, err := l.rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			l.reader.Reset()
			continue
		}
		return line, err
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".schemer_history")
}

// ensureHistoryFilePermissions creates path if needed and restricts it to
// the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
