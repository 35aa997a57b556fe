package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
)

// CommandRunner abstracts command execution so callers can be tested without
// the real build tools on PATH.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, int, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// signalExitBase follows the shell convention: a command killed by signal N
// reports 128+N.
const signalExitBase = 128

// Run executes name in dir and returns captured stdout, stderr and exit code.
// A binary that cannot be started reports 127.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() > 0 {
			return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), err
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			log.Warn().Str("command", name).Str("signal", ws.Signal().String()).Msg("command killed by signal")
			return stdout.Bytes(), stderr.Bytes(), signalExitBase + int(ws.Signal()), err
		}
	}

	exitCode := 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return stdout.Bytes(), stderr.Bytes(), exitCode, err
}

// CommandError reports an external command that exited non-zero.
type CommandError struct {
	Name   string
	Args   []string
	Dir    string
	Code   int
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", e.Command(), e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Command returns the command line as a single string, for logs.
func (e *CommandError) Command() string {
	return strings.Join(append([]string{e.Name}, e.Args...), " ")
}

// Check runs one command and turns a non-zero exit into *CommandError.
func Check(ctx context.Context, runner CommandRunner, dir, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	log.Info().Str("dir", dir).Str("command", line).Msg("run command start")

	stdout, stderr, code, err := runner.Run(ctx, dir, name, args...)
	if code == 0 && err != nil {
		code = 1
	}
	if code != 0 {
		log.Error().Str("dir", dir).Str("command", line).Int("code", code).Msg("run command failed")
		return stdout, &CommandError{
			Name:   name,
			Args:   append([]string(nil), args...),
			Dir:    dir,
			Code:   code,
			Stderr: strings.TrimSpace(string(stderr)),
			Err:    err,
		}
	}
	log.Info().Str("command", line).Int("code", code).Msg("run command finish")
	return stdout, nil
}
