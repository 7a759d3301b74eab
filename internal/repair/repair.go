// Package repair regenerates failing icon assets from the best available
// source image and rewrites the manifests that bind them. All of the
// pipeline's writes happen here, confined to the platform icon tree plus its
// two manifest files.
package repair

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/appfactor/icongate/internal/inventory"
	"github.com/appfactor/icongate/internal/manifest"
	"github.com/appfactor/icongate/internal/platform"
	"github.com/appfactor/icongate/internal/validate"
)

// ErrUnwritable marks filesystem failures inside the icon tree. They leave
// the platform NotReady; nothing retries at this layer.
var ErrUnwritable = errors.New("icon tree is not writable")

// Record actions.
const (
	ActionIcon          = "regenerate icon"
	ActionAssetManifest = "rewrite asset manifest"
	ActionAppManifest   = "patch app manifest"
)

// Record is one write the pass performed, or planned under dry-run.
type Record struct {
	Action      string
	Path        string
	Requirement platform.Requirement // zero value for manifest writes
	Source      string               // master image description, icon writes only
}

// Options tunes a repair pass.
type Options struct {
	LogoPath string
	DryRun   bool
}

// Outcome summarizes one platform's repair pass for the report.
type Outcome struct {
	Target   platform.Target
	Source   *Source // nil when no icon needed regenerating
	Records  []Record
	Warnings []string
	DryRun   bool
}

// Run repairs everything pr flagged: failing requirements are re-rendered
// from one selected source, a failing asset-manifest is rewritten wholesale,
// and a failing app-manifest gets its icon key patched in place. Requirements
// already at Pass are never touched. Under DryRun every write is recorded but
// skipped.
func Run(ctx context.Context, snap *inventory.Snapshot, pr *validate.PlatformResult, opts Options) (*Outcome, error) {
	out := &Outcome{Target: snap.Target, DryRun: opts.DryRun}

	if failures := pr.Failures(); len(failures) > 0 {
		src, warnings := SelectSource(snap, opts.LogoPath)
		out.Source = src
		out.Warnings = warnings

		for _, res := range failures {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			path := res.Requirement.Path(snap.Target, snap.Root)
			if !opts.DryRun {
				if err := writeIconFile(src, res.Requirement, path); err != nil {
					return out, err
				}
			}
			out.Records = append(out.Records, Record{
				Action:      ActionIcon,
				Path:        path,
				Requirement: res.Requirement,
				Source:      src.Describe(),
			})
		}
	}

	if !pr.AssetManifest.OK {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		path, data, err := assetManifestBytes(snap.Target, snap.Root)
		if err != nil {
			return out, err
		}
		if !opts.DryRun {
			if err := writeFile(path, data); err != nil {
				return out, err
			}
		}
		out.Records = append(out.Records, Record{Action: ActionAssetManifest, Path: path})
	}

	if !pr.AppManifest.OK {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := patchAppManifest(snap.Target, snap.Root, opts.DryRun, out); err != nil {
			return out, err
		}
	}

	return out, nil
}

func writeIconFile(src *Source, req platform.Requirement, path string) error {
	img := renderIcon(src.Image, req.Width, req.Height)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w: %v", filepath.Dir(path), ErrUnwritable, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %v", path, ErrUnwritable, err)
	}
	return nil
}

// assetManifestBytes builds the canonical replacement asset-manifest. The
// existing file's content is deliberately ignored: replace, never merge.
func assetManifestBytes(t platform.Target, root string) (string, []byte, error) {
	path := t.AssetManifestPath(root)
	switch t {
	case platform.Android:
		return path, manifest.BuildAdaptiveIcon(), nil
	default:
		data, err := manifest.CanonicalAppIconSet().Marshal()
		if err != nil {
			return path, nil, fmt.Errorf("build Contents.json: %w", err)
		}
		return path, data, nil
	}
}

// patchAppManifest rewrites the icon reference key inside the application
// manifest, preserving everything else. A manifest that cannot be loaded is
// left alone with a warning, never invented from scratch.
func patchAppManifest(t platform.Target, root string, dryRun bool, out *Outcome) error {
	path := t.AppManifestPath(root)
	want := t.IconSetName()

	switch t {
	case platform.IOS:
		pl, err := manifest.LoadInfoPlist(path)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("cannot patch %s: %v", filepath.Base(path), err))
			return nil
		}
		if !pl.SetIconName(want) {
			return nil
		}
		if !dryRun {
			if err := pl.Save(path); err != nil {
				return fmt.Errorf("%w: %v", ErrUnwritable, err)
			}
		}
	case platform.Android:
		am, err := manifest.LoadAndroidManifest(path)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("cannot patch %s: %v", filepath.Base(path), err))
			return nil
		}
		if !am.SetIconRef(want) {
			return nil
		}
		if !dryRun {
			if err := am.Save(path); err != nil {
				return fmt.Errorf("%w: %v", ErrUnwritable, err)
			}
		}
	}

	out.Records = append(out.Records, Record{Action: ActionAppManifest, Path: path})
	return nil
}
