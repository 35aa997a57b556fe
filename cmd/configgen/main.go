package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/ohostools/internal/config"
	"github.com/danmuck/ohostools/internal/exitcode"
	"github.com/danmuck/ohostools/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "ohos-build.toml"

func main() {
	logging.ConfigureRuntime("configgen")
	err := newRootCmd(os.Stdout).ExecuteContext(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("configgen failed")
	}
	os.Exit(exitcode.For(err))
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		kind     string
		output   string
		validate bool
		input    string
		force    bool
	)
	cmd := &cobra.Command{
		Use:           "configgen",
		Short:         "Write or validate an ohostools config file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if validate {
				path := input
				if path == "" {
					path = defaultConfigPath
				}
				if _, err := config.Load(path); err != nil {
					return err
				}
				_, err := fmt.Fprintf(stdout, "Validated config at %s\n", path)
				return err
			}

			target := output
			if target == "" {
				target = defaultConfigPath
			}
			if err := config.WriteTemplate(target, kind, force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(stdout, "Wrote %s config template to %s\n", kind, target)
			return err
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", exitcode.ErrUsage, err)
	})

	fs := cmd.Flags()
	fs.StringVar(&kind, "kind", "all", "config kind: all|ndk|har")
	fs.StringVar(&output, "output", "", "output path for config template (default "+defaultConfigPath+")")
	fs.BoolVar(&validate, "validate", false, "validate an existing config file")
	fs.StringVar(&input, "input", "", "config path for validation (default "+defaultConfigPath+")")
	fs.BoolVar(&force, "force", false, "overwrite existing config file")
	return cmd
}
