package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "all", "":
		return ndkTemplate + "\n" + harTemplate, nil
	case "ndk":
		return ndkTemplate, nil
	case "har":
		return harTemplate, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(template), 0o644)
}

const ndkTemplate = `[ndk]
# Explicit NDK root. When set, no search is performed.
home_env = "OHOS_NDK_HOME"
# SDK roots searched, in order, when home_env is unset.
search_env = ["OHOS_SDK_HOME", "DEVECO_SDK_HOME"]
suffix = "native"
required = [".", "sysroot", "llvm/bin", "build-tools/cmake/bin"]
`

const harTemplate = `[har]
hvigor = "hvigorw"
staging_dir = "flutter_embedding"
module = "flutter"
target = "default"
product = "default"
libs_dir = "flutter/libs"
artifact = "flutter/build/default/outputs/default/flutter.har"
`
