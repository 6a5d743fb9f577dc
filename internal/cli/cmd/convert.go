// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/bridge"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/fixture"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/trace"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

func newConvertCmd(cli *CLI) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "convert [flags] fixture-file",
		Short: "Convert a fixture and print the resulting value",
		Long: `Convert a fixture and print the resulting value.

The fixture is decoded as YAML, JSON or CBOR and converted with the conversion
selected by --as. The result is printed in a JSON-like form where undefined
values print as undefined, sets as Set[...] and maps as Map{key => value}.

Use "-" to read the fixture from standard input.`,
		Example: `$ jsbridge convert fixture.yaml
$ jsbridge convert --as set --compact numbers.json
$ cat fixture.cbor | jsbridge convert -`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := cli.convertFixture(args[0])
			if err != nil {
				return err
			}
			log.Print(value.ToJSON(v, compact))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&compact, "compact", "C", false, "Print the value on a single line")
	return cmd
}

// loadFixture decodes the fixture at path. The path "-" reads standard input.
func (c *CLI) loadFixture(path string) (any, error) {
	format, err := c.config.format()
	if err != nil {
		return nil, err
	}
	if path == "-" {
		return fixture.Decode(c.Stdin, format)
	}
	return fixture.Load(path, format)
}

// convertFixture loads the fixture at path and converts it as configured by the as option.
func (c *CLI) convertFixture(path string) (value.Value, error) {
	data, err := c.loadFixture(path)
	if err != nil {
		return nil, err
	}
	as, err := c.config.conversion()
	if err != nil {
		return nil, err
	}
	v, err := convertAs(data, as)
	if err != nil {
		err = fmt.Errorf("could not convert %s: %w", path, err)
		if errors.Is(err, bridge.ErrUnsupportedType) && as != "auto" {
			return nil, errHint(err, fmt.Sprintf("The fixture may not have the shape of a %s", as), "Try --as auto")
		}
		return nil, err
	}
	trace.Trace("converted", path, "to", v.Type())
	return v, nil
}

func convertAs(data any, as string) (value.Value, error) {
	switch as {
	case "object":
		return widen(bridge.ConvertObject(data))
	case "array":
		return widen(bridge.ConvertArray(data))
	case "set":
		return widen(bridge.ConvertSet(data))
	case "map":
		return widen(bridge.ConvertMap(data))
	}
	return bridge.Convert(data)
}

// widen drops the concrete aggregate type, keeping a nil interface on error.
func widen[T value.Value](v T, err error) (value.Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
