package ndk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/danmuck/ohostools/internal/config"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("ndk: no valid ndk root found")

// Hint is printed when resolution fails.
const Hint = `Please set the environment variables for HarmonyOS SDK to "DEVECO_SDK_HOME".
We will use both native/llvm and native/sysroot.
Please ensure that the file "native/llvm/bin/clang" exists and is executable.`

// NotFoundError describes a failed resolution. Candidate is the last value
// considered, empty when nothing was found at all.
type NotFoundError struct {
	HomeEnv   string
	Candidate string
	Searched  int
}

func (e *NotFoundError) Error() string {
	if e.Candidate == "" {
		return fmt.Sprintf("ndk: %s is unset and no valid ndk root found (%d candidates)", e.HomeEnv, e.Searched)
	}
	return fmt.Sprintf("ndk: %s=%q is not a valid ndk root", e.HomeEnv, e.Candidate)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Locator resolves the NDK root from environment variables.
type Locator struct {
	Getenv    func(string) string
	HomeEnv   string
	SearchEnv []string
	Suffix    string
	Required  []string
}

func NewLocator(cfg config.NDKConfig) *Locator {
	return &Locator{
		Getenv:    os.Getenv,
		HomeEnv:   cfg.HomeEnv,
		SearchEnv: slices.Clone(cfg.SearchEnv),
		Suffix:    cfg.Suffix,
		Required:  slices.Clone(cfg.Required),
	}
}

// Locate returns the resolved NDK root. An explicit home variable is final:
// when it is set but invalid, the search roots are not consulted.
func (l *Locator) Locate() (string, error) {
	home := l.getenv(l.HomeEnv)
	searched := 0
	if home == "" {
		candidates := l.Candidates()
		searched = len(candidates)
		for _, dir := range candidates {
			if l.IsValid(dir) {
				home = dir
				break
			}
			log.Debug().Str("candidate", dir).Msg("ndk candidate rejected")
		}
	}
	log.Info().Str(l.HomeEnv, home).Msg("ndk home")

	if !l.IsValid(home) {
		return "", &NotFoundError{HomeEnv: l.HomeEnv, Candidate: home, Searched: searched}
	}
	return home, nil
}

// Candidates lists every directory under the search roots whose name ends in
// the suffix, sorted in descending lexicographic order.
func (l *Locator) Candidates() []string {
	var dirs []string
	for _, env := range l.SearchEnv {
		dirs = append(dirs, Find(l.getenv(env), l.Suffix)...)
	}
	slices.Sort(dirs)
	slices.Reverse(dirs)
	return dirs
}

// IsValid reports whether path exists and holds every required subpath.
func (l *Locator) IsValid(path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	for _, rel := range l.Required {
		if _, err := os.Stat(filepath.Join(path, filepath.FromSlash(rel))); err != nil {
			return false
		}
	}
	return true
}

func (l *Locator) getenv(key string) string {
	if key == "" {
		return ""
	}
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

// Find returns the absolute paths of all directories below root whose name
// ends with suffix. Matches are descended into as well, so nested layouts are
// reported. Symlinked directories are followed, except into a directory that
// is already one of their own ancestors. A missing or unreadable root yields
// nothing.
func Find(root, suffix string) []string {
	if root == "" {
		return nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	var out []string
	find(abs, suffix, make(map[string]struct{}), &out)
	return out
}

// ancestors holds the resolved paths of the directories on the current
// descent, so only symlink cycles are cut.
func find(dir, suffix string, ancestors map[string]struct{}, out *[]string) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return
	}
	if _, seen := ancestors[resolved]; seen {
		return
	}
	ancestors[resolved] = struct{}{}
	defer delete(ancestors, resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("ndk search skipped directory")
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !isDir(path, entry) {
			continue
		}
		if strings.HasSuffix(entry.Name(), suffix) {
			*out = append(*out, path)
		}
		find(path, suffix, ancestors, out)
	}
}

func isDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
