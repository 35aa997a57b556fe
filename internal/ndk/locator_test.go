package ndk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/ohostools/internal/config"
	"github.com/danmuck/ohostools/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
	}
}

// makeNDK lays out a minimal valid ndk root.
func makeNDK(t *testing.T, root string) string {
	t.Helper()
	mkdirs(t,
		filepath.Join(root, "sysroot"),
		filepath.Join(root, "llvm", "bin"),
		filepath.Join(root, "build-tools", "cmake", "bin"),
	)
	return root
}

func newTestLocator(env map[string]string) *Locator {
	l := NewLocator(config.Default().NDK)
	l.Getenv = func(k string) string { return env[k] }
	return l
}

func TestLocateUsesExplicitHome(t *testing.T) {
	testlog.Start(t)
	home := makeNDK(t, filepath.Join(t.TempDir(), "ndk"))
	l := newTestLocator(map[string]string{"OHOS_NDK_HOME": home})

	got, err := l.Locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != home {
		t.Fatalf("unexpected home: %q", got)
	}
}

func TestLocateExplicitHomeInvalidDoesNotSearch(t *testing.T) {
	testlog.Start(t)
	sdk := t.TempDir()
	makeNDK(t, filepath.Join(sdk, "10", "native"))
	bogus := filepath.Join(t.TempDir(), "bogus")
	mkdirs(t, bogus)
	l := newTestLocator(map[string]string{
		"OHOS_NDK_HOME":   bogus,
		"DEVECO_SDK_HOME": sdk,
	})

	_, err := l.Locate()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Candidate != bogus {
		t.Fatalf("unexpected error detail: %v", err)
	}
}

func TestLocateNothingSet(t *testing.T) {
	testlog.Start(t)
	l := newTestLocator(nil)
	got, err := l.Locate()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}

func TestLocatePicksGreatestValidCandidate(t *testing.T) {
	testlog.Start(t)
	sdk := t.TempDir()
	deveco := t.TempDir()
	makeNDK(t, filepath.Join(sdk, "openharmony", "9", "native"))
	makeNDK(t, filepath.Join(sdk, "openharmony", "11", "native"))
	// greatest overall, but missing cmake
	mkdirs(t,
		filepath.Join(deveco, "zz", "native", "sysroot"),
		filepath.Join(deveco, "zz", "native", "llvm", "bin"),
	)

	l := newTestLocator(map[string]string{
		"OHOS_SDK_HOME":   sdk,
		"DEVECO_SDK_HOME": deveco,
	})
	got, err := l.Locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	want := filepath.Join(sdk, "openharmony", "9", "native")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLocateNoCandidateValid(t *testing.T) {
	testlog.Start(t)
	sdk := t.TempDir()
	mkdirs(t, filepath.Join(sdk, "native", "sysroot"))
	l := newTestLocator(map[string]string{"OHOS_SDK_HOME": sdk})

	_, err := l.Locate()
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Candidate != "" || nf.Searched != 1 {
		t.Fatalf("unexpected error detail: %+v", nf)
	}
}

func TestCandidatesSortedDescending(t *testing.T) {
	sdk := t.TempDir()
	mkdirs(t,
		filepath.Join(sdk, "a", "native"),
		filepath.Join(sdk, "c", "native"),
		filepath.Join(sdk, "b", "native"),
		filepath.Join(sdk, "b", "other"),
	)
	l := newTestLocator(map[string]string{"OHOS_SDK_HOME": sdk})

	want := []string{
		filepath.Join(sdk, "c", "native"),
		filepath.Join(sdk, "b", "native"),
		filepath.Join(sdk, "a", "native"),
	}
	if diff := cmp.Diff(want, l.Candidates()); diff != "" {
		t.Fatalf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestFindDescendsIntoMatches(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, "native", "inner", "deepnative"))
	if err := os.WriteFile(filepath.Join(root, "filenative"), nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	want := []string{
		filepath.Join(root, "native"),
		filepath.Join(root, "native", "inner", "deepnative"),
	}
	if diff := cmp.Diff(want, Find(root, "native")); diff != "" {
		t.Fatalf("unexpected matches (-want +got):\n%s", diff)
	}
}

func TestFindMissingRoot(t *testing.T) {
	if got := Find("", "native"); got != nil {
		t.Fatalf("expected nil for empty root, got %v", got)
	}
	if got := Find(filepath.Join(t.TempDir(), "missing"), "native"); got != nil {
		t.Fatalf("expected nil for missing root, got %v", got)
	}
}

func TestFindSymlinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, "sdk", "native"))
	if err := os.Symlink(root, filepath.Join(root, "sdk", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got := Find(root, "native")
	want := []string{filepath.Join(root, "sdk", "native")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected matches (-want +got):\n%s", diff)
	}
}

func TestFindFollowsSymlinkToSearchedDir(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, filepath.Join(root, "a", "native"))
	if err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "b")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	want := []string{
		filepath.Join(root, "a", "native"),
		filepath.Join(root, "b", "native"),
	}
	if diff := cmp.Diff(want, Find(root, "native")); diff != "" {
		t.Fatalf("unexpected matches (-want +got):\n%s", diff)
	}
}

func TestLocatePrefersSymlinkedCurrentRelease(t *testing.T) {
	testlog.Start(t)
	sdk := t.TempDir()
	makeNDK(t, filepath.Join(sdk, "11", "native"))
	if err := os.Symlink(filepath.Join(sdk, "11"), filepath.Join(sdk, "current")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	l := newTestLocator(map[string]string{"OHOS_SDK_HOME": sdk})

	got, err := l.Locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if want := filepath.Join(sdk, "current", "native"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestIsValid(t *testing.T) {
	l := newTestLocator(nil)
	root := t.TempDir()
	if l.IsValid("") {
		t.Fatalf("empty path must be invalid")
	}
	if l.IsValid(root) {
		t.Fatalf("bare dir must be invalid")
	}
	makeNDK(t, root)
	if !l.IsValid(root) {
		t.Fatalf("expected valid ndk root")
	}
	if l.IsValid(filepath.Join(root, "missing")) {
		t.Fatalf("missing root must be invalid")
	}
}
