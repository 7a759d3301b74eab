// Package validate classifies inventoried icon assets against their
// requirements and checks the two manifests that bind an icon set into a
// build. It only ever reads; every failure becomes a verdict, not an error.
package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/appfactor/icongate/internal/inventory"
	"github.com/appfactor/icongate/internal/manifest"
	"github.com/appfactor/icongate/internal/platform"
)

// Verdict is the per-requirement outcome.
type Verdict int

const (
	Pass Verdict = iota
	Missing
	Empty
	WrongSize
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Missing:
		return "missing"
	case Empty:
		return "empty"
	case WrongSize:
		return "wrong size"
	default:
		return "unknown"
	}
}

// Result records how one requirement fared. Width/Height are the measured
// dimensions when the file decoded, zero otherwise.
type Result struct {
	Requirement    platform.Requirement
	Found          bool
	NonEmpty       bool
	DimensionMatch bool
	Width          int
	Height         int
	Verdict        Verdict
	Detail         string
}

// Check is a manifest-level condition folded into the platform verdict.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// PlatformResult is everything validation learned about one platform.
type PlatformResult struct {
	Target        platform.Target
	Results       []Result
	AssetManifest Check
	AppManifest   Check
}

// Run validates a full snapshot: every asset plus both manifests.
func Run(snap *inventory.Snapshot) *PlatformResult {
	pr := &PlatformResult{Target: snap.Target}
	for _, a := range snap.Assets {
		pr.Results = append(pr.Results, Asset(a))
	}
	pr.AssetManifest, pr.AppManifest = Manifests(snap.Target, snap.Root)
	return pr
}

// Asset classifies one inventoried asset. An unreadable image counts as
// WrongSize: its dimensions cannot be confirmed, so it must be regenerated.
func Asset(a inventory.Asset) Result {
	r := Result{Requirement: a.Requirement, Width: a.Width, Height: a.Height}

	switch {
	case !a.Present:
		r.Verdict = Missing
	case a.ByteSize == 0:
		r.Found = true
		r.Verdict = Empty
		r.Detail = "zero-byte file"
	case a.DecodeErr != nil:
		r.Found = true
		r.NonEmpty = true
		r.Verdict = WrongSize
		r.Detail = fmt.Sprintf("unreadable image: %v", a.DecodeErr)
	case a.Width != a.Requirement.Width || a.Height != a.Requirement.Height:
		r.Found = true
		r.NonEmpty = true
		r.Verdict = WrongSize
		r.Detail = fmt.Sprintf("found %dx%d, want %s", a.Width, a.Height, a.Requirement.SizeLabel())
	default:
		r.Found = true
		r.NonEmpty = true
		r.DimensionMatch = true
		r.Verdict = Pass
	}
	return r
}

// Manifests checks the asset-manifest and the application manifest for t.
// Both are repairable conditions; a broken or missing manifest fails the
// check rather than aborting the run.
func Manifests(t platform.Target, root string) (asset, app Check) {
	return assetManifestCheck(t, root), appManifestCheck(t, root)
}

func assetManifestCheck(t platform.Target, root string) Check {
	path := t.AssetManifestPath(root)
	check := Check{Name: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		check.Detail = "not found"
		return check
	}

	switch t {
	case platform.IOS:
		set, err := manifest.ParseAppIconSet(data)
		if err != nil {
			check.Detail = fmt.Sprintf("unparseable: %v", err)
			return check
		}
		if !set.HasMarketingIcon() {
			check.Detail = "no 1024x1024 marketing image declared"
			return check
		}
	case platform.Android:
		if err := manifest.CheckAdaptiveIcon(data); err != nil {
			check.Detail = fmt.Sprintf("unparseable: %v", err)
			return check
		}
	}
	check.OK = true
	return check
}

func appManifestCheck(t platform.Target, root string) Check {
	path := t.AppManifestPath(root)
	check := Check{Name: filepath.Base(path)}
	want := t.IconSetName()

	switch t {
	case platform.IOS:
		pl, err := manifest.LoadInfoPlist(path)
		if err != nil {
			check.Detail = loadFailure(err)
			return check
		}
		if got := pl.IconName(); got != want {
			check.Detail = fmt.Sprintf("CFBundleIconName is %q, want %q", got, want)
			return check
		}
	case platform.Android:
		am, err := manifest.LoadAndroidManifest(path)
		if err != nil {
			check.Detail = loadFailure(err)
			return check
		}
		if got := am.IconRef(); got != want {
			check.Detail = fmt.Sprintf("android:icon is %q, want %q", got, want)
			return check
		}
	}
	check.OK = true
	return check
}

func loadFailure(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return "not found"
	}
	return fmt.Sprintf("unparseable: %v", err)
}

// Ready reports whether the platform may ship: every requirement at Pass and
// both manifest checks clean.
func (p *PlatformResult) Ready() bool {
	for _, r := range p.Results {
		if r.Verdict != Pass {
			return false
		}
	}
	return p.AssetManifest.OK && p.AppManifest.OK
}

// Failures returns the non-Pass results, in requirement order.
func (p *PlatformResult) Failures() []Result {
	var out []Result
	for _, r := range p.Results {
		if r.Verdict != Pass {
			out = append(out, r)
		}
	}
	return out
}
