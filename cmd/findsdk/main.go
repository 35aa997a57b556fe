package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/danmuck/ohostools/internal/config"
	"github.com/danmuck/ohostools/internal/exitcode"
	"github.com/danmuck/ohostools/internal/logging"
	"github.com/danmuck/ohostools/internal/ndk"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	logging.ConfigureRuntime("findsdk")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if errors.Is(err, exitcode.ErrUsage) {
		log.Error().Err(err).Msg("findsdk")
	}
	os.Exit(exitcode.For(err))
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "findsdk",
		Short: "Print the OpenHarmony NDK root to standard output",
		Long: `Resolve the OpenHarmony native development kit.

OHOS_NDK_HOME is used as-is when set. Otherwise OHOS_SDK_HOME and
DEVECO_SDK_HOME are searched for directories ending in "native" and the
greatest valid path wins. Exits 10 when no valid root exists.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				log.Error().Err(err).Msg("load config")
				return err
			}
			home, err := ndk.NewLocator(cfg.NDK).Locate()
			if err != nil {
				log.Error().Err(err).Msg("\n" + ndk.Hint)
				return err
			}
			_, err = fmt.Fprintln(stdout, home)
			return err
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", exitcode.ErrUsage, err)
	})
	cmd.Flags().StringVar(&configPath, "config", "", "optional ohostools TOML config")
	return cmd
}
