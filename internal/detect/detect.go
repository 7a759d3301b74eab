// Package detect probes a project checkout to determine which platform
// build trees are present.
package detect

import (
	"errors"
	"fmt"
	"os"

	"github.com/appfactor/icongate/internal/platform"
)

// ErrNoPlatform is returned when the project root contains neither an ios/
// nor an android/ tree. There is nothing to validate, so the run is fatal.
var ErrNoPlatform = errors.New("no platform directory found")

// Platforms returns the subset of known targets whose platform directory
// exists under root. Read-only: it never creates or modifies anything.
func Platforms(root string) ([]platform.Target, error) {
	if root == "" {
		return nil, fmt.Errorf("project root is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat project root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	var found []platform.Target
	for _, t := range platform.All() {
		if isDir(t.Dir(root)) {
			found = append(found, t)
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoPlatform, root)
	}
	return found, nil
}

// Has reports whether a single target's directory exists under root.
func Has(root string, t platform.Target) bool {
	return isDir(t.Dir(root))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
