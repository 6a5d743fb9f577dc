// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package cmd

import (
	"log"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Show current version",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Args:              cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := ""
			if cli.version.IsZero() {
				build = " (development build)"
			}
			log.Printf("jsbridge version %s%s compiled with %v on %v/%v", cli.version, build, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
