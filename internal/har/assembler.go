package har

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danmuck/ohostools/internal/config"
	"github.com/danmuck/ohostools/internal/tools"
	"github.com/rs/zerolog/log"
)

// Assembler runs the staging and hvigor steps for one project layout.
type Assembler struct {
	layout config.HARConfig
	runner tools.CommandRunner
}

// NewAssembler returns an assembler for layout. A nil runner executes
// commands on the local host.
func NewAssembler(layout config.HARConfig, runner tools.CommandRunner) *Assembler {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return &Assembler{layout: layout, runner: runner}
}

// Assemble produces opts.Output. Steps run in order and the first failure
// stops the sequence; nothing already staged is cleaned up.
func (a *Assembler) Assemble(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := a.ResetStaging(opts.BuildDir); err != nil {
		return err
	}
	if err := a.CopySources(opts.BuildDir, opts.SourceDir, opts.SourceFiles); err != nil {
		return err
	}
	if err := a.CopyNativeLibs(opts.BuildDir, opts.ABI, opts.NativeLibs); err != nil {
		return err
	}
	if err := a.Build(ctx, opts.BuildDir, opts.BuildType); err != nil {
		return err
	}
	return a.CopyArtifact(opts.BuildDir, opts.Output)
}

func (a *Assembler) StagingDir(buildDir string) string {
	return filepath.Join(buildDir, filepath.FromSlash(a.layout.StagingDir))
}

func (a *Assembler) LibDir(buildDir, abi string) string {
	return filepath.Join(a.StagingDir(buildDir), filepath.FromSlash(a.layout.LibsDir), abi)
}

func (a *Assembler) ArtifactPath(buildDir string) string {
	return filepath.Join(a.StagingDir(buildDir), filepath.FromSlash(a.layout.Artifact))
}

// ResetStaging deletes and recreates the staging directory.
func (a *Assembler) ResetStaging(buildDir string) error {
	dir := a.StagingDir(buildDir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("har: reset staging %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("har: reset staging %s: %w", dir, err)
	}
	log.Debug().Str("dir", dir).Msg("staging reset")
	return nil
}

// CopySources copies each relative file from sourceDir to the same relative
// path under buildDir.
func (a *Assembler) CopySources(buildDir, sourceDir string, files []string) error {
	for _, file := range files {
		rel := filepath.FromSlash(file)
		if err := tools.CopyFile(filepath.Join(sourceDir, rel), filepath.Join(buildDir, rel)); err != nil {
			return fmt.Errorf("har: stage source: %w", err)
		}
	}
	log.Debug().Int("count", len(files)).Msg("sources staged")
	return nil
}

// CopyNativeLibs copies each library into the ABI directory of the module,
// keeping its base name.
func (a *Assembler) CopyNativeLibs(buildDir, abi string, libs []string) error {
	if len(libs) == 0 {
		return nil
	}
	dir := a.LibDir(buildDir, abi)
	for _, lib := range libs {
		if err := tools.CopyFile(lib, filepath.Join(dir, filepath.Base(lib))); err != nil {
			return fmt.Errorf("har: stage native lib: %w", err)
		}
	}
	log.Debug().Str("dir", dir).Int("count", len(libs)).Msg("native libs staged")
	return nil
}

// Build generates the build profile and assembles the HAR inside the staging
// directory. A failed command is returned as *tools.CommandError.
func (a *Assembler) Build(ctx context.Context, buildDir string, buildType BuildType) error {
	dir := a.StagingDir(buildDir)
	if _, err := tools.Check(ctx, a.runner, dir, a.layout.Hvigor, a.profileArgs()...); err != nil {
		return err
	}
	if _, err := tools.Check(ctx, a.runner, dir, a.layout.Hvigor, a.assembleArgs(buildType)...); err != nil {
		return err
	}
	return nil
}

// CopyArtifact copies the built HAR to output.
func (a *Assembler) CopyArtifact(buildDir, output string) error {
	if err := tools.CopyFile(a.ArtifactPath(buildDir), output); err != nil {
		return fmt.Errorf("har: copy artifact: %w", err)
	}
	log.Info().Str("output", output).Msg("har written")
	return nil
}

func (a *Assembler) profileArgs() []string {
	return []string{"GenerateBuildProfile"}
}

func (a *Assembler) assembleArgs(buildType BuildType) []string {
	return []string{
		"clean",
		"--mode", "module",
		"-p", "module=" + a.layout.Module + "@" + a.layout.Target,
		"-p", "product=" + a.layout.Product,
		"-p", "buildMode=" + string(buildType),
		"assembleHar",
		"--no-daemon",
	}
}
