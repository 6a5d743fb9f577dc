// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/cli/build"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/trace"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/util"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/version"
)

const (
	colorFlag   = "color"
	quietFlag   = "quiet"
	formatFlag  = "format"
	asFlag      = "as"
	verboseFlag = "verbose"
)

// CLI holds the jsbridge command tree, configuration and dependencies.
type CLI struct {
	// Environment holds the process environment.
	Environment map[string]string
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer

	cmd     *cobra.Command
	config  *Config
	version version.Version

	isTerminal func() bool
	spinner    util.SpinFunc
}

// ErrCLI is an error returned to the user. It wraps an exit status, a regular error and optional hints for resolving
// the error.
type ErrCLI struct {
	Status int
	quiet  bool
	hints  []string
	error
}

func (e ErrCLI) Unwrap() error { return e.error }

// errHint creates a new CLI error, with optional hints that will be printed after the error
func errHint(err error, hints ...string) ErrCLI { return ErrCLI{Status: 1, hints: hints, error: err} }

// New creates the jsbridge CLI, writing output to stdout and stderr, and reading environment variables from environment.
func New(stdout, stderr io.Writer, environment []string) (*CLI, error) {
	cmd := &cobra.Command{
		Use:   "jsbridge command-name",
		Short: "Convert host data into JavaScript runtime values and check them",
		Long: `Convert host data into JavaScript runtime values and check them.

Fixtures in YAML, JSON or CBOR are converted to records, arrays, sets or maps
and handed to an embedded JavaScript runtime, where check functions verify
what arrived.

For a description of options and configuration, see 'jsbridge help config'.
`,
		DisableAutoGenTag: true,
		SilenceErrors:     true, // We have our own error printing
		SilenceUsage:      false,
		Args:              cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("invalid command: %s", args[0])
		},
	}
	env := make(map[string]string)
	for _, entry := range environment {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) == 2 {
			env[parts[0]] = parts[1]
		}
	}
	version, err := version.Parse(build.Version)
	if err != nil {
		return nil, err
	}
	cli := CLI{
		Environment: env,
		Stdin:       os.Stdin,
		Stdout:      stdout,
		Stderr:      stderr,

		version: version,
		cmd:     cmd,
		spinner: util.NoSpinner,
	}
	cli.isTerminal = func() bool { return isTerminal(cli.Stdout) && isTerminal(cli.Stderr) }
	if err := cli.loadConfig(); err != nil {
		return nil, err
	}
	cli.configureCommands()
	cmd.PersistentPreRunE = cli.configureOutput
	return &cli, nil
}

func (c *CLI) loadConfig() error {
	config, err := loadConfig(c.Environment, c.configureFlags())
	if err != nil {
		return err
	}
	c.config = config
	return nil
}

func (c *CLI) configureOutput(cmd *cobra.Command, args []string) error {
	if f, ok := c.Stdout.(*os.File); ok {
		c.Stdout = colorable.NewColorable(f)
	}
	if f, ok := c.Stderr.(*os.File); ok {
		c.Stderr = colorable.NewColorable(f)
	}
	quiet, err := c.config.isQuiet()
	if err != nil {
		return err
	}
	if quiet {
		c.Stdout = io.Discard
	}
	log.SetFlags(0) // No timestamps
	log.SetOutput(c.Stdout)
	colorValue, err := c.config.lookup(colorFlag)
	if err != nil {
		return err
	}
	colorize := false
	switch colorValue {
	case "auto":
		_, nocolor := c.Environment["NO_COLOR"] // https://no-color.org
		colorize = !nocolor && c.isTerminal()
	case "always":
		colorize = true
	}
	color.NoColor = !colorize
	verbosity, err := c.config.verbosity()
	if err != nil {
		return err
	}
	trace.SetOutput(c.Stderr)
	trace.SetComponent("jsbridge")
	trace.SetVerbosity(verbosity)
	c.configureSpinner(quiet)
	return nil
}

func (c *CLI) configureFlags() map[string]*pflag.Flag {
	var (
		color   string
		quiet   bool
		format  string
		as      string
		verbose int
	)
	c.cmd.PersistentFlags().StringVarP(&color, colorFlag, "c", "auto", `Whether to use colors in output. Must be "auto", "never", or "always"`)
	c.cmd.PersistentFlags().BoolVarP(&quiet, quietFlag, "q", false, "Print only errors")
	c.cmd.PersistentFlags().StringVarP(&format, formatFlag, "f", "auto", `Fixture format. Must be "auto", "yaml", "json" or "cbor"`)
	c.cmd.PersistentFlags().StringVarP(&as, asFlag, "a", "auto", `Conversion to apply. Must be "auto", "object", "array", "set" or "map"`)
	c.cmd.PersistentFlags().IntVarP(&verbose, verboseFlag, "v", 0, "Diagnostic output level, from 0 (warnings only) to 3 (debug)")
	flags := make(map[string]*pflag.Flag)
	c.cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		flags[flag.Name] = flag
	})
	return flags
}

func (c *CLI) configureSpinner(quiet bool) {
	// CI systems emulate a terminal but turn \r into newlines
	_, ci := c.Environment["CI"]
	if quiet || ci || !c.isTerminal() {
		c.spinner = util.NoSpinner
	} else {
		c.spinner = util.Spinner
	}
}

func (c *CLI) configureCommands() {
	rootCmd := c.cmd
	configCmd := newConfigCmd()
	configCmd.AddCommand(newConfigGetCmd(c))   // config get
	configCmd.AddCommand(newConfigSetCmd(c))   // config set
	configCmd.AddCommand(newConfigUnsetCmd(c)) // config unset
	rootCmd.AddCommand(configCmd)              // config
	rootCmd.AddCommand(newCheckCmd(c))         // check
	rootCmd.AddCommand(newConvertCmd(c))       // convert
	rootCmd.AddCommand(newInspectCmd(c))       // inspect
	rootCmd.AddCommand(newVersionCmd(c))       // version
}

func (c *CLI) printErr(err error, hints ...string) {
	fmt.Fprintln(c.Stderr, color.RedString("Error:"), err)
	for _, hint := range hints {
		fmt.Fprintln(c.Stderr, color.CyanString("Hint:"), hint)
	}
}

func (c *CLI) printSuccess(msg ...any) {
	fmt.Fprintln(c.Stdout, color.GreenString("Success:"), fmt.Sprint(msg...))
}

func (c *CLI) printWarning(msg any, hints ...string) {
	fmt.Fprintln(c.Stderr, color.YellowString("Warning:"), msg)
	for _, hint := range hints {
		fmt.Fprintln(c.Stderr, color.CyanString("Hint:"), hint)
	}
}

// Run executes the CLI with given args. If args is nil, it defaults to os.Args[1:].
func (c *CLI) Run(args ...string) error {
	c.cmd.SetArgs(args)
	err := c.cmd.Execute()
	if err != nil {
		if cliErr, ok := err.(ErrCLI); ok {
			if !cliErr.quiet {
				c.printErr(cliErr, cliErr.hints...)
			}
		} else {
			c.printErr(err)
		}
	}
	return err
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}
