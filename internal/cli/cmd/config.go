// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/config"
	"github.com/vespa-engine/vespa/jsbridge/go/internal/fixture"
)

const (
	configFile = "config.yaml"
	envPrefix  = "JSBRIDGE_"
	maxVerbose = 3
)

var conversions = []string{"auto", "object", "array", "set", "map"}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Manage persistent values for global flags",
		Long: `Manage persistent values for global flags.

This command allows setting a persistent value for a given global flag. On
future invocations the flag can then be omitted as it is read from the config
file instead.

Configuration is written to $HOME/.jsbridge by default. This path can be
overridden by setting the JSBRIDGE_HOME environment variable.

A flag given on the command line takes precedence over the environment
variable JSBRIDGE_<OPTION>, which takes precedence over the config file.

The following options are supported:

as

Conversion to apply to fixtures: "auto", "object", "array", "set" or "map".
With "auto" the conversion follows the shape of the decoded fixture.

color

Whether to use colors in output: "auto", "never" or "always".

format

Fixture format: "auto", "yaml", "json" or "cbor". With "auto" the format is
taken from the file extension, or guessed from the content.

quiet

Print only errors: "true" or "false".

verbose

Diagnostic output level, an integer from 0 to 3.`,
		DisableAutoGenTag: true,
		SilenceUsage:      false,
		Args:              cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("invalid command: %s", args[0])
		},
	}
}

func newConfigSetCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "set option-name value",
		Short: "Set a configuration option",
		Example: `# Convert fixtures to sets unless told otherwise
$ jsbridge config set as set

# Never use colors
$ jsbridge config set color never`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Args:              cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.config.set(args[0], args[1]); err != nil {
				return err
			}
			if env := envPrefix + strings.ToUpper(args[0]); cli.Environment[env] != "" {
				cli.printWarning(fmt.Sprintf("%s is set and takes precedence over the config file", env), "Unset "+env+" to use the configured value")
			}
			return cli.config.write()
		},
	}
}

func newConfigUnsetCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:               "unset option-name",
		Short:             "Unset a configuration option, restoring its default",
		Example:           `$ jsbridge config unset as`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.config.unset(args[0]); err != nil {
				return err
			}
			return cli.config.write()
		},
	}
}

func newConfigGetCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "get [option-name]",
		Short: "Show given configuration option, or all configuration options",
		Example: `$ jsbridge config get
$ jsbridge config get format`,
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 { // Print all values
				for _, option := range cli.config.options() {
					cli.config.printOption(option)
				}
				return nil
			}
			if _, ok := cli.config.flags[args[0]]; !ok {
				return errHint(fmt.Errorf("invalid option: %q", args[0]), "Try 'jsbridge config get' to list all options")
			}
			cli.config.printOption(args[0])
			return nil
		},
	}
}

// Config resolves option values from flags, environment and the config file.
type Config struct {
	homeDir     string
	environment map[string]string
	flags       map[string]*pflag.Flag
	file        *config.Config
}

func loadConfig(environment map[string]string, flags map[string]*pflag.Flag) (*Config, error) {
	home, err := jsbridgeHome(environment)
	if err != nil {
		return nil, fmt.Errorf("could not detect config directory: %w", err)
	}
	file, err := config.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	return &Config{
		homeDir:     home,
		environment: environment,
		flags:       flags,
		file:        file,
	}, nil
}

func (c *Config) options() []string {
	var options []string
	for name := range c.flags {
		options = append(options, name)
	}
	sort.Strings(options)
	return options
}

func (c *Config) write() error {
	return c.file.WriteFile(filepath.Join(c.homeDir, configFile))
}

// get returns the value of option. A flag given on the command line wins over the environment, which wins over the
// config file. The flag default is used when nothing else sets the option.
func (c *Config) get(option string) (string, bool) {
	flag, isFlag := c.flags[option]
	if isFlag && flag.Changed {
		return flag.Value.String(), true
	}
	if value, ok := c.environment[envPrefix+strings.ToUpper(option)]; ok {
		return value, true
	}
	if value, ok := c.file.Get(option); ok {
		return value, true
	}
	if isFlag {
		return flag.Value.String(), true
	}
	return "", false
}

func (c *Config) set(option, value string) error {
	if err := validateOption(option, value); err != nil {
		return err
	}
	c.file.Set(option, value)
	return nil
}

func (c *Config) unset(option string) error {
	if _, ok := c.flags[option]; !ok {
		return fmt.Errorf("invalid option: %q", option)
	}
	c.file.Del(option)
	return nil
}

func validateOption(option, value string) error {
	switch option {
	case colorFlag:
		switch value {
		case "auto", "never", "always":
			return nil
		}
	case quietFlag:
		if _, err := strconv.ParseBool(value); err == nil {
			return nil
		}
	case formatFlag:
		if _, err := fixture.ParseFormat(value); err == nil {
			return nil
		}
	case asFlag:
		for _, as := range conversions {
			if value == as {
				return nil
			}
		}
	case verboseFlag:
		if n, err := strconv.Atoi(value); err == nil && n >= 0 && n <= maxVerbose {
			return nil
		}
	}
	return fmt.Errorf("invalid option or value: %q: %q", option, value)
}

// lookup returns the value of option and fails if it is not valid, which happens when the environment or a hand
// edited config file holds garbage.
func (c *Config) lookup(option string) (string, error) {
	value, _ := c.get(option)
	if err := validateOption(option, value); err != nil {
		return "", errHint(err, "Try 'jsbridge config get' to see where options are set")
	}
	return value, nil
}

func (c *Config) isQuiet() (bool, error) {
	value, err := c.lookup(quietFlag)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(value)
}

func (c *Config) verbosity() (int, error) {
	value, err := c.lookup(verboseFlag)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

func (c *Config) format() (fixture.Format, error) {
	value, err := c.lookup(formatFlag)
	if err != nil {
		return fixture.Auto, err
	}
	return fixture.ParseFormat(value)
}

func (c *Config) conversion() (string, error) { return c.lookup(asFlag) }

func (c *Config) printOption(option string) {
	value, _ := c.get(option)
	log.Printf("%s = %s", option, color.CyanString(value))
}

func jsbridgeHome(env map[string]string) (string, error) {
	if home := env["JSBRIDGE_HOME"]; home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, ".jsbridge"), nil
}
