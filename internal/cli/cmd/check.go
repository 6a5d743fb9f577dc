// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/jsrt"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/trace"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

var defaultChecks = map[value.Type]string{
	value.RECORD: "check_obj",
	value.ARRAY:  "check_arr",
	value.SET:    "check_set",
	value.MAP:    "check_map",
}

func newCheckCmd(cli *CLI) *cobra.Command {
	var (
		script   string
		function string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check [flags] fixture-file...",
		Short: "Convert fixtures and verify them in the JavaScript runtime",
		Long: `Convert fixtures and verify them in the JavaScript runtime.

Each fixture is converted, handed to a fresh JavaScript runtime and passed to a
check function. A check fails when the function throws. Unless --function is
given, the check follows the converted value: check_obj for records, check_arr
for arrays, check_set for sets and check_map for maps.

The built-in checks verify the reference fixtures. A script given with --script
is run first, and the functions it declares replace built-in checks of the same
name. Scripts may load the built-in checks with require('bridge:checks').

A check still running after --timeout is interrupted and counts as failed.`,
		Example: `$ jsbridge check object.yaml array.json set.yaml map.yaml
$ jsbridge check --script checks.js --function check_order orders.json`,
		Args:              cobra.MinimumNArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				name, err := cli.checkFixture(path, script, function, timeout)
				if err != nil {
					cli.printErr(err, checkHints(err)...)
					failed++
					continue
				}
				cli.printSuccess(path, ": ", name, " passed")
			}
			if failed > 0 {
				return ErrCLI{Status: 1, error: fmt.Errorf("%d of %d checks failed", failed, len(args))}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&script, "script", "s", "", "JavaScript file declaring check functions")
	cmd.Flags().StringVarP(&function, "function", "F", "", "Name of the check function to run")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Time to wait for each check. 0 waits forever")
	return cmd
}

// checkFixture converts the fixture at path and runs a check function on it in a new runtime. It returns the name of
// the function that ran. Errors name the fixture.
func (c *CLI) checkFixture(path, script, function string, timeout time.Duration) (string, error) {
	v, err := c.convertFixture(path)
	if err != nil {
		return "", err
	}
	if function == "" {
		name, ok := defaultChecks[v.Type()]
		if !ok {
			return "", fmt.Errorf("%s: no check for %s values, pick one with --function", path, v.Type())
		}
		function = name
	}
	rt, err := newRuntime(script)
	if err != nil {
		return "", err
	}
	trace.Info("running", function, "on", path)
	check := func() error { return rt.Check(function, v) }
	if err := c.spinner(c.Stderr, "Checking "+path, func() error { return rt.WithTimeout(timeout, check) }); err != nil {
		var checkErr *jsrt.CheckError
		if errors.As(err, &checkErr) {
			for _, frame := range checkErr.Stack {
				trace.Debug("at", frame)
			}
		}
		return function, fmt.Errorf("%s: %w", path, err)
	}
	return function, nil
}

// checkHints returns the hints to print after a failed check.
func checkHints(err error) []string {
	var hints []string
	var cliErr ErrCLI
	if errors.As(err, &cliErr) {
		hints = append(hints, cliErr.hints...)
	}
	var checkErr *jsrt.CheckError
	if errors.As(err, &checkErr) && checkErr.Location.Line > 0 {
		hints = append(hints, fmt.Sprintf("Thrown at %s line %d", checkErr.Location.Filename, checkErr.Location.Line))
	}
	var interrupted *jsrt.InterruptedError
	if errors.As(err, &interrupted) {
		hints = append(hints, "Give the check more time with --timeout, or disable the limit with --timeout 0")
	}
	return hints
}

func newRuntime(script string) (*jsrt.Runtime, error) {
	if script == "" {
		return jsrt.New()
	}
	rt, err := jsrt.New(jsrt.WithBaseDir(filepath.Dir(script)))
	if err != nil {
		return nil, err
	}
	if err := rt.LoadScript(filepath.Base(script)); err != nil {
		return nil, err
	}
	return rt, nil
}
