package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/danmuck/ohostools/internal/config"
	"github.com/danmuck/ohostools/internal/exitcode"
	"github.com/danmuck/ohostools/internal/har"
	"github.com/danmuck/ohostools/internal/logging"
	"github.com/danmuck/ohostools/internal/tools"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	logging.ConfigureRuntime("createhar")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(tools.ExecRunner{}, os.Args[1:]).ExecuteContext(ctx)
	stop()
	if err != nil {
		logFailure(err)
	}
	os.Exit(exitcode.For(err))
}

type flags struct {
	buildDir    string
	buildType   string
	output      string
	nativeLibs  []string
	abi         string
	sourceDir   string
	sourceFiles []string
	config      string
}

// newRootCmd parses rawArgs. They are kept so positional source files can be
// checked against the position of --source_files.
func newRootCmd(runner tools.CommandRunner, rawArgs []string) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "createhar --build_dir DIR --build_type TYPE --output FILE --source_dir DIR --source_files FILE...",
		Short: "Create a HAR incorporating the Flutter embedding and engine libraries",
		Long: `Stage the embedding sources and native libraries into an hvigor project,
build it with hvigorw and copy flutter.har to --output.

--source_files takes one or more paths relative to --source_dir; every
positional argument after it is treated as another source file. Positional
arguments before it are rejected. A failing
hvigorw command exits with that command's exit code.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stray := strayArgs(cmd, rawArgs); len(stray) > 0 {
				return fmt.Errorf("%w: unexpected arguments %q", exitcode.ErrUsage, stray)
			}
			return run(cmd.Context(), cmd, runner, f, args)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", exitcode.ErrUsage, err)
	})

	fs := cmd.Flags()
	fs.StringVar(&f.buildDir, "build_dir", "", "path to build")
	fs.StringVar(&f.buildType, "build_type", "", "type to build flutter.har: debug|release|profile")
	fs.StringVar(&f.output, "output", "", "path to output flutter.har")
	fs.StringArrayVar(&f.nativeLibs, "native_lib", nil, "native code library (repeatable)")
	fs.StringVar(&f.abi, "ohos_abi", "", "native code ABI")
	fs.StringVar(&f.sourceDir, "source_dir", "", "path to sources")
	fs.StringArrayVar(&f.sourceFiles, "source_files", nil, "source paths relative to --source_dir")
	fs.StringVar(&f.config, "config", "", "optional ohostools TOML config")
	cmd.SetArgs(rawArgs)
	return cmd
}

// strayArgs returns the positional arguments that appear before the first
// --source_files flag.
func strayArgs(cmd *cobra.Command, raw []string) []string {
	var stray []string
	seen := false
	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case arg == "--":
			if !seen {
				stray = append(stray, raw[i+1:]...)
			}
			return stray
		case strings.HasPrefix(arg, "--"):
			name, _, inline := strings.Cut(arg[2:], "=")
			if name == "source_files" {
				seen = true
			}
			fl := cmd.Flags().Lookup(name)
			if !inline && fl != nil && fl.NoOptDefVal == "" {
				i++
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			fl := cmd.Flags().ShorthandLookup(arg[1:2])
			if len(arg) == 2 && fl != nil && fl.NoOptDefVal == "" {
				i++
			}
		default:
			if !seen {
				stray = append(stray, arg)
			}
		}
	}
	return stray
}

func run(ctx context.Context, cmd *cobra.Command, runner tools.CommandRunner, f flags, args []string) error {
	sources := f.sourceFiles
	if len(args) > 0 {
		if !cmd.Flags().Changed("source_files") {
			return fmt.Errorf("%w: unexpected arguments %q", exitcode.ErrUsage, args)
		}
		sources = append(append([]string(nil), sources...), args...)
	}

	buildType, err := har.ParseBuildType(f.buildType)
	if err != nil {
		return err
	}
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}

	opts := har.Options{
		BuildDir:    f.buildDir,
		BuildType:   buildType,
		Output:      f.output,
		NativeLibs:  f.nativeLibs,
		ABI:         f.abi,
		SourceDir:   f.sourceDir,
		SourceFiles: sources,
	}
	return har.NewAssembler(cfg.HAR, runner).Assemble(ctx, opts)
}

func logFailure(err error) {
	var cmdErr *tools.CommandError
	if errors.As(err, &cmdErr) {
		log.Error().
			Str("command", cmdErr.Command()).
			Str("dir", cmdErr.Dir).
			Int("code", cmdErr.Code).
			Str("stderr", cmdErr.Stderr).
			Msg("createhar failed")
		return
	}
	log.Error().Err(err).Msg("createhar failed")
}
