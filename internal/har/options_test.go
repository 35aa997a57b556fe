package har

import (
	"errors"
	"testing"
)

func validOptions() Options {
	return Options{
		BuildDir:    "out",
		BuildType:   BuildDebug,
		Output:      "out/flutter.har",
		NativeLibs:  []string{"engine/libflutter.so"},
		ABI:         "arm64-v8a",
		SourceDir:   "src",
		SourceFiles: []string{"flutter_embedding/hvigorfile.ts"},
	}
}

func TestParseBuildType(t *testing.T) {
	for raw, want := range map[string]BuildType{
		"debug":   BuildDebug,
		"release": BuildRelease,
		"profile": BuildProfile,
	} {
		got, err := ParseBuildType(raw)
		if err != nil || got != want {
			t.Fatalf("ParseBuildType(%q) = %q, %v", raw, got, err)
		}
	}
	for _, raw := range []string{"jit_release", "DEBUG", "Release", " profile ", ""} {
		if _, err := ParseBuildType(raw); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("ParseBuildType(%q): expected ErrInvalidOptions, got %v", raw, err)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := validOptions().Validate(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}

	cases := map[string]func(*Options){
		"missing build dir":     func(o *Options) { o.BuildDir = "" },
		"bad build type":        func(o *Options) { o.BuildType = "fast" },
		"upper-case build type": func(o *Options) { o.BuildType = "Release" },
		"missing output":        func(o *Options) { o.Output = " " },
		"missing source dir":    func(o *Options) { o.SourceDir = "" },
		"no source files":       func(o *Options) { o.SourceFiles = nil },
		"absolute source file":  func(o *Options) { o.SourceFiles = []string{"/etc/passwd"} },
		"escaping source file":  func(o *Options) { o.SourceFiles = []string{"../outside.ets"} },
		"libs without abi":      func(o *Options) { o.ABI = "" },
		"abi with separator":    func(o *Options) { o.ABI = "arm64/../x" },
		"empty lib":             func(o *Options) { o.NativeLibs = []string{""} },
	}
	for name, mutate := range cases {
		opts := validOptions()
		mutate(&opts)
		if err := opts.Validate(); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("%s: expected ErrInvalidOptions, got %v", name, err)
		}
	}
}

func TestOptionsValidateAllowsNoLibsWithoutABI(t *testing.T) {
	opts := validOptions()
	opts.NativeLibs = nil
	opts.ABI = ""
	if err := opts.Validate(); err != nil {
		t.Fatalf("expected libs-free options accepted: %v", err)
	}
}
