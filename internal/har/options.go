package har

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrInvalidOptions = errors.New("har: invalid options")

// BuildType selects the hvigor buildMode of the produced HAR.
type BuildType string

const (
	BuildDebug   BuildType = "debug"
	BuildRelease BuildType = "release"
	BuildProfile BuildType = "profile"
)

var buildTypes = []BuildType{BuildDebug, BuildRelease, BuildProfile}

// ParseBuildType accepts exactly one of the three lower-case mode names; the
// value is handed to hvigor verbatim.
func ParseBuildType(raw string) (BuildType, error) {
	t := BuildType(raw)
	for _, known := range buildTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: build type %q (want debug|release|profile)", ErrInvalidOptions, raw)
}

// Options is one createhar invocation.
type Options struct {
	BuildDir    string
	BuildType   BuildType
	Output      string
	NativeLibs  []string
	ABI         string
	SourceDir   string
	SourceFiles []string
}

func (o Options) Validate() error {
	if strings.TrimSpace(o.BuildDir) == "" {
		return fmt.Errorf("%w: build dir is required", ErrInvalidOptions)
	}
	if _, err := ParseBuildType(string(o.BuildType)); err != nil {
		return err
	}
	if strings.TrimSpace(o.Output) == "" {
		return fmt.Errorf("%w: output is required", ErrInvalidOptions)
	}
	if strings.TrimSpace(o.SourceDir) == "" {
		return fmt.Errorf("%w: source dir is required", ErrInvalidOptions)
	}
	if len(o.SourceFiles) == 0 {
		return fmt.Errorf("%w: at least one source file is required", ErrInvalidOptions)
	}
	for _, f := range o.SourceFiles {
		if err := checkRelative(f); err != nil {
			return fmt.Errorf("%w: source file: %v", ErrInvalidOptions, err)
		}
	}
	if len(o.NativeLibs) > 0 {
		if err := checkABI(o.ABI); err != nil {
			return fmt.Errorf("%w: ohos abi: %v", ErrInvalidOptions, err)
		}
	}
	for _, lib := range o.NativeLibs {
		if strings.TrimSpace(lib) == "" {
			return fmt.Errorf("%w: empty native lib path", ErrInvalidOptions)
		}
	}
	return nil
}

// checkRelative keeps staged sources inside the build directory.
func checkRelative(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New("empty path")
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("%q must be relative to the source dir", p)
	}
	if !filepath.IsLocal(p) {
		return fmt.Errorf("%q escapes the build dir", p)
	}
	return nil
}

func checkABI(abi string) error {
	abi = strings.TrimSpace(abi)
	if abi == "" {
		return errors.New("required when native libs are given")
	}
	if strings.ContainsAny(abi, `/\`) || abi == "." || abi == ".." {
		return fmt.Errorf("%q is not a directory name", abi)
	}
	return nil
}
