package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrInvalidConfig = errors.New("config: invalid config")
	ErrUnknownKind   = errors.New("config: unknown config kind")
)

// Config is the optional file shared by findsdk and createhar. The zero file
// yields Default, which matches the stock OHOS Flutter engine build.
type Config struct {
	NDK NDKConfig
	HAR HARConfig
}

// NDKConfig controls where findsdk looks for the native development kit.
type NDKConfig struct {
	HomeEnv   string   // explicit NDK root, used without searching
	SearchEnv []string // SDK roots searched in order when HomeEnv is unset
	Suffix    string   // directory suffix identifying an NDK candidate
	Required  []string // slash-separated subpaths a valid root must contain
}

// HARConfig describes the hvigor project createhar stages and builds.
type HARConfig struct {
	Hvigor     string
	StagingDir string
	Module     string
	Target     string
	Product    string
	LibsDir    string
	Artifact   string
}

type fileConfig struct {
	NDK struct {
		HomeEnv   string   `toml:"home_env"`
		SearchEnv []string `toml:"search_env"`
		Suffix    string   `toml:"suffix"`
		Required  []string `toml:"required"`
	} `toml:"ndk"`
	HAR struct {
		Hvigor     string `toml:"hvigor"`
		StagingDir string `toml:"staging_dir"`
		Module     string `toml:"module"`
		Target     string `toml:"target"`
		Product    string `toml:"product"`
		LibsDir    string `toml:"libs_dir"`
		Artifact   string `toml:"artifact"`
	} `toml:"har"`
}

func Default() Config {
	return Config{
		NDK: NDKConfig{
			HomeEnv:   "OHOS_NDK_HOME",
			SearchEnv: []string{"OHOS_SDK_HOME", "DEVECO_SDK_HOME"},
			Suffix:    "native",
			Required:  []string{".", "sysroot", "llvm/bin", "build-tools/cmake/bin"},
		},
		HAR: HARConfig{
			Hvigor:     "hvigorw",
			StagingDir: "flutter_embedding",
			Module:     "flutter",
			Target:     "default",
			Product:    "default",
			LibsDir:    "flutter/libs",
			Artifact:   "flutter/build/default/outputs/default/flutter.har",
		},
	}
}

// Load reads file over Default. An empty file returns Default unchanged.
func Load(file string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(file) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(file, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%w: load %s: %v", ErrInvalidConfig, file, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidConfig, file, undecoded[0].String())
	}

	setString(meta, &cfg.NDK.HomeEnv, raw.NDK.HomeEnv, "ndk", "home_env")
	setString(meta, &cfg.NDK.Suffix, raw.NDK.Suffix, "ndk", "suffix")
	if meta.IsDefined("ndk", "search_env") {
		cfg.NDK.SearchEnv = normalizeList(raw.NDK.SearchEnv)
	}
	if meta.IsDefined("ndk", "required") {
		cfg.NDK.Required = normalizeList(raw.NDK.Required)
	}

	setString(meta, &cfg.HAR.Hvigor, raw.HAR.Hvigor, "har", "hvigor")
	setString(meta, &cfg.HAR.StagingDir, raw.HAR.StagingDir, "har", "staging_dir")
	setString(meta, &cfg.HAR.Module, raw.HAR.Module, "har", "module")
	setString(meta, &cfg.HAR.Target, raw.HAR.Target, "har", "target")
	setString(meta, &cfg.HAR.Product, raw.HAR.Product, "har", "product")
	setString(meta, &cfg.HAR.LibsDir, raw.HAR.LibsDir, "har", "libs_dir")
	setString(meta, &cfg.HAR.Artifact, raw.HAR.Artifact, "har", "artifact")

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", file, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.NDK.HomeEnv) == "" {
		return fmt.Errorf("%w: ndk.home_env is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.NDK.Suffix) == "" {
		return fmt.Errorf("%w: ndk.suffix is required", ErrInvalidConfig)
	}
	for i, p := range cfg.NDK.Required {
		if err := validateRelative(p); err != nil {
			return fmt.Errorf("%w: ndk.required[%d]: %v", ErrInvalidConfig, i, err)
		}
	}

	fields := []struct{ key, value string }{
		{"har.hvigor", cfg.HAR.Hvigor},
		{"har.staging_dir", cfg.HAR.StagingDir},
		{"har.module", cfg.HAR.Module},
		{"har.target", cfg.HAR.Target},
		{"har.product", cfg.HAR.Product},
		{"har.libs_dir", cfg.HAR.LibsDir},
		{"har.artifact", cfg.HAR.Artifact},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, f.key)
		}
	}
	for _, f := range []struct{ key, value string }{
		{"har.staging_dir", cfg.HAR.StagingDir},
		{"har.libs_dir", cfg.HAR.LibsDir},
		{"har.artifact", cfg.HAR.Artifact},
	} {
		if err := validateRelative(f.value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f.key, err)
		}
	}
	return nil
}

func validateRelative(p string) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return errors.New("empty path")
	}
	if path.IsAbs(p) || strings.HasPrefix(p, `\`) {
		return fmt.Errorf("%q must be relative", p)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%q escapes its root", p)
	}
	return nil
}

func setString(meta toml.MetaData, dst *string, value string, key ...string) {
	if !meta.IsDefined(key...) {
		return
	}
	*dst = strings.TrimSpace(value)
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
