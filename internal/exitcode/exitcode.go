// Package exitcode defines the process exit codes shared by the ohostools
// binaries. Build scripts check these numerically, so values never change.
package exitcode

import (
	"errors"

	"github.com/danmuck/ohostools/internal/config"
	"github.com/danmuck/ohostools/internal/har"
	"github.com/danmuck/ohostools/internal/ndk"
	"github.com/danmuck/ohostools/internal/tools"
)

// ErrUsage marks command-line misuse that is not tied to one package.
var ErrUsage = errors.New("usage error")

const (
	Success     = 0
	Failure     = 1
	Usage       = 2  // bad flags, options or config
	NDKNotFound = 10 // no valid NDK root could be resolved
)

// For maps an error returned by a tool to its exit code. A failed external
// command exits with the command's own code.
func For(err error) int {
	if err == nil {
		return Success
	}
	var cmdErr *tools.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code != 0 {
		return cmdErr.Code
	}
	switch {
	case errors.Is(err, ndk.ErrNotFound):
		return NDKNotFound
	case errors.Is(err, ErrUsage),
		errors.Is(err, har.ErrInvalidOptions),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrUnknownKind):
		return Usage
	default:
		return Failure
	}
}
