package detect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/appfactor/icongate/internal/platform"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPlatforms_Both(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "ios", "android")

	got, err := Platforms(root)
	if err != nil {
		t.Fatalf("Platforms() error = %v", err)
	}
	if len(got) != 2 || got[0] != platform.IOS || got[1] != platform.Android {
		t.Errorf("Platforms() = %v, want [ios android]", got)
	}
}

func TestPlatforms_IOSOnly(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "ios")

	got, err := Platforms(root)
	if err != nil {
		t.Fatalf("Platforms() error = %v", err)
	}
	if len(got) != 1 || got[0] != platform.IOS {
		t.Errorf("Platforms() = %v, want [ios]", got)
	}
}

func TestPlatforms_NoneIsFatal(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "web", "docs")

	_, err := Platforms(root)
	if !errors.Is(err, ErrNoPlatform) {
		t.Errorf("Platforms() error = %v, want ErrNoPlatform", err)
	}
}

func TestPlatforms_MissingRoot(t *testing.T) {
	_, err := Platforms(filepath.Join(t.TempDir(), "gone"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if errors.Is(err, ErrNoPlatform) {
		t.Error("missing root should not be ErrNoPlatform")
	}
}

func TestPlatforms_FileNotDir(t *testing.T) {
	root := t.TempDir()
	// A plain file named ios must not count as a platform tree.
	if err := os.WriteFile(filepath.Join(root, "ios"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mkdirs(t, root, "android")

	got, err := Platforms(root)
	if err != nil {
		t.Fatalf("Platforms() error = %v", err)
	}
	if len(got) != 1 || got[0] != platform.Android {
		t.Errorf("Platforms() = %v, want [android]", got)
	}
}

func TestHas(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "android")

	if Has(root, platform.IOS) {
		t.Error("Has(ios) = true for android-only tree")
	}
	if !Has(root, platform.Android) {
		t.Error("Has(android) = false, want true")
	}
}
