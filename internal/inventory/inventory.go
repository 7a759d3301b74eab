// Package inventory builds the required-vs-present picture of a platform's
// icon assets by probing the filesystem.
package inventory

import (
	"fmt"
	"image"
	"os"

	// Register the codecs icon trees and source logos come in. webp is
	// decode-only, which is all probing needs.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/appfactor/icongate/internal/platform"
)

// Asset is one requirement's measured on-disk state. Absent files are
// represented with Present=false rather than omitted, so every requirement
// always has exactly one record per scan.
type Asset struct {
	Requirement platform.Requirement
	Path        string
	Present     bool
	Width       int
	Height      int
	ByteSize    int64
	DecodeErr   error // file exists but is not a readable image
}

// Snapshot is one platform's full inventory for a single pipeline pass.
// It lives for the duration of the run and is never persisted.
type Snapshot struct {
	Target platform.Target
	Root   string
	Assets []Asset
}

// Scan inspects the icon files reqs demand under root. A nil reqs scans the
// target's full requirement table. Scan never fails: unreadable or corrupt
// files are recorded on the Asset and left for the validator to judge.
func Scan(target platform.Target, root string, reqs []platform.Requirement) *Snapshot {
	if reqs == nil {
		reqs = platform.Requirements(target)
	}
	snap := &Snapshot{Target: target, Root: root, Assets: make([]Asset, 0, len(reqs))}
	for _, req := range reqs {
		snap.Assets = append(snap.Assets, inspect(target, root, req))
	}
	return snap
}

func inspect(target platform.Target, root string, req platform.Requirement) Asset {
	asset := Asset{Requirement: req, Path: req.Path(target, root)}

	info, err := os.Stat(asset.Path)
	if err != nil || info.IsDir() {
		return asset
	}
	asset.Present = true
	asset.ByteSize = info.Size()
	if asset.ByteSize == 0 {
		return asset
	}

	w, h, err := Probe(asset.Path)
	if err != nil {
		asset.DecodeErr = err
		return asset
	}
	asset.Width = w
	asset.Height = h
	return asset
}

// Probe reads the pixel dimensions of the image at path without decoding
// pixel data. Corrupt or non-image files return an error, never a panic.
func Probe(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// LargestValid returns the biggest present, decodable, non-empty asset in
// the snapshot. The repairer uses it as a source candidate when no logo is
// configured.
func (s *Snapshot) LargestValid() (Asset, bool) {
	var best Asset
	found := false
	for _, a := range s.Assets {
		if !a.Present || a.ByteSize == 0 || a.DecodeErr != nil {
			continue
		}
		if !found || a.Width > best.Width {
			best = a
			found = true
		}
	}
	return best, found
}
