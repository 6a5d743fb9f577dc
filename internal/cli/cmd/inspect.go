// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/table"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/value"
)

func newInspectCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [flags] fixture-file",
		Short: "Show every converted value of a fixture with its storage",
		Long: `Show every converted value of a fixture with its storage.

Prints one table row per value below the root, with its path, type, storage
and value. Strings are stored as "short" (up to 7 bytes) or "long", numbers as
"int" (integers within 2^53) or "double".`,
		Example:           `$ jsbridge inspect fixture.yaml`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := cli.convertFixture(args[0])
			if err != nil {
				return err
			}
			t := table.New().Row("path", "type", "storage", "value").Line()
			value.Walk(v, func(path *value.Path, v value.Value) {
				t.Row(pathName(path), v.Type().String(), storage(v), value.ToJSON(v, true))
			})
			return t.Render(cli.Stdout)
		},
	}
}

func pathName(path *value.Path) string {
	if path.Len() == 0 {
		return "(root)"
	}
	return path.String()
}

func storage(v value.Value) string {
	switch v.Type() {
	case value.STRING:
		if value.IsShort(v) {
			return "short"
		}
		return "long"
	case value.NUMBER:
		if v.IsInteger() {
			return "int"
		}
		return "double"
	}
	return ""
}
