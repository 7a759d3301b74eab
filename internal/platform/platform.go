// Package platform defines the mobile targets the pipeline knows how to
// validate, their icon requirement tables, and their on-disk layout.
package platform

import (
	"fmt"
	"path/filepath"
)

// Target identifies a mobile platform build tree.
type Target int

const (
	Unknown Target = iota
	IOS            // ios/ Xcode project tree
	Android        // android/ Gradle project tree
)

// All returns every known target in processing order.
func All() []Target {
	return []Target{IOS, Android}
}

func (t Target) String() string {
	switch t {
	case IOS:
		return "ios"
	case Android:
		return "android"
	default:
		return "unknown"
	}
}

// DisplayName returns the human-facing platform name.
func (t Target) DisplayName() string {
	switch t {
	case IOS:
		return "iOS"
	case Android:
		return "Android"
	default:
		return "Unknown"
	}
}

// StoreName returns the app store whose submission checks apply to t.
// Report markers are keyed by these names and must not change.
func (t Target) StoreName() string {
	switch t {
	case IOS:
		return "App Store"
	case Android:
		return "Play Store"
	default:
		return "Unknown Store"
	}
}

// Dir returns the platform's project subtree under root.
func (t Target) Dir(root string) string {
	return filepath.Join(root, t.String())
}

// IconRoot returns the directory all of t's icon files live under.
// Requirement.File paths are relative to it, and repair writes are
// confined to it plus the two manifest files.
func (t Target) IconRoot(root string) string {
	switch t {
	case IOS:
		return filepath.Join(root, "ios", "Runner", "Assets.xcassets", "AppIcon.appiconset")
	case Android:
		return filepath.Join(root, "android", "app", "src", "main")
	default:
		return ""
	}
}

// AssetManifestPath returns the per-platform icon index file: Contents.json
// for the iOS asset catalog, the adaptive-icon declaration for Android.
func (t Target) AssetManifestPath(root string) string {
	switch t {
	case IOS:
		return filepath.Join(t.IconRoot(root), "Contents.json")
	case Android:
		return filepath.Join(t.IconRoot(root), "res", "mipmap-anydpi-v26", "ic_launcher.xml")
	default:
		return ""
	}
}

// AppManifestPath returns the platform's application manifest, which holds
// the icon-name reference key among other properties.
func (t Target) AppManifestPath(root string) string {
	switch t {
	case IOS:
		return filepath.Join(root, "ios", "Runner", "Info.plist")
	case Android:
		return filepath.Join(t.IconRoot(root), "AndroidManifest.xml")
	default:
		return ""
	}
}

// IconSetName returns the canonical icon-set identifier the app manifest
// must reference (CFBundleIconName on iOS, the mipmap resource on Android).
func (t Target) IconSetName() string {
	switch t {
	case IOS:
		return "AppIcon"
	case Android:
		return "@mipmap/ic_launcher"
	default:
		return ""
	}
}

// Requirement is one icon file a platform's store submission demands:
// an exact pixel size at a fixed path relative to the target's IconRoot.
type Requirement struct {
	Name     string // stable identifier, e.g. "ios-marketing"
	Role     string // human description used in reports
	File     string // path relative to Target.IconRoot, forward slashes
	Width    int
	Height   int
	Critical bool // part of the default pre-build emergency subset
}

// Path returns the absolute path of the requirement's file for a project root.
func (r Requirement) Path(t Target, root string) string {
	return filepath.Join(t.IconRoot(root), filepath.FromSlash(r.File))
}

// SizeLabel renders the required dimensions, e.g. "120x120".
func (r Requirement) SizeLabel() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// iosRequirements lists the AppIcon.appiconset files Xcode and App Store
// validation expect. Sizes are pixels (point size × scale). The 60pt@2x home
// screen icon and the 1024 marketing icon are the two App Review rejects
// builds over outright.
var iosRequirements = []Requirement{
	{Name: "ios-20@1x", Role: "notification icon", File: "Icon-App-20x20@1x.png", Width: 20, Height: 20},
	{Name: "ios-20@2x", Role: "notification icon", File: "Icon-App-20x20@2x.png", Width: 40, Height: 40},
	{Name: "ios-20@3x", Role: "notification icon", File: "Icon-App-20x20@3x.png", Width: 60, Height: 60},
	{Name: "ios-29@1x", Role: "settings icon", File: "Icon-App-29x29@1x.png", Width: 29, Height: 29},
	{Name: "ios-29@2x", Role: "settings icon", File: "Icon-App-29x29@2x.png", Width: 58, Height: 58},
	{Name: "ios-29@3x", Role: "settings icon", File: "Icon-App-29x29@3x.png", Width: 87, Height: 87},
	{Name: "ios-40@1x", Role: "spotlight icon", File: "Icon-App-40x40@1x.png", Width: 40, Height: 40},
	{Name: "ios-40@2x", Role: "spotlight icon", File: "Icon-App-40x40@2x.png", Width: 80, Height: 80},
	{Name: "ios-40@3x", Role: "spotlight icon", File: "Icon-App-40x40@3x.png", Width: 120, Height: 120},
	{Name: "ios-60@2x", Role: "iphone app icon", File: "Icon-App-60x60@2x.png", Width: 120, Height: 120, Critical: true},
	{Name: "ios-60@3x", Role: "iphone app icon", File: "Icon-App-60x60@3x.png", Width: 180, Height: 180},
	{Name: "ios-76@1x", Role: "ipad app icon", File: "Icon-App-76x76@1x.png", Width: 76, Height: 76},
	{Name: "ios-76@2x", Role: "ipad app icon", File: "Icon-App-76x76@2x.png", Width: 152, Height: 152},
	{Name: "ios-83.5@2x", Role: "ipad pro app icon", File: "Icon-App-83.5x83.5@2x.png", Width: 167, Height: 167},
	{Name: "ios-marketing", Role: "app store marketing icon", File: "Icon-App-1024x1024@1x.png", Width: 1024, Height: 1024, Critical: true},
}

// androidRequirements lists the density-scaled launcher set plus the Play
// Store listing icon. The xxxhdpi launcher and the 512 listing icon are the
// Play Console upload blockers.
var androidRequirements = []Requirement{
	{Name: "android-mdpi", Role: "mdpi launcher icon", File: "res/mipmap-mdpi/ic_launcher.png", Width: 48, Height: 48},
	{Name: "android-hdpi", Role: "hdpi launcher icon", File: "res/mipmap-hdpi/ic_launcher.png", Width: 72, Height: 72},
	{Name: "android-xhdpi", Role: "xhdpi launcher icon", File: "res/mipmap-xhdpi/ic_launcher.png", Width: 96, Height: 96},
	{Name: "android-xxhdpi", Role: "xxhdpi launcher icon", File: "res/mipmap-xxhdpi/ic_launcher.png", Width: 144, Height: 144},
	{Name: "android-xxxhdpi", Role: "xxxhdpi launcher icon", File: "res/mipmap-xxxhdpi/ic_launcher.png", Width: 192, Height: 192, Critical: true},
	{Name: "android-playstore", Role: "play store listing icon", File: "ic_launcher-playstore.png", Width: 512, Height: 512, Critical: true},
}

// Requirements returns t's full requirement table. The returned slice is a
// copy; callers may filter it freely.
func Requirements(t Target) []Requirement {
	var src []Requirement
	switch t {
	case IOS:
		src = iosRequirements
	case Android:
		src = androidRequirements
	default:
		return nil
	}
	out := make([]Requirement, len(src))
	copy(out, src)
	return out
}

// CriticalRequirements returns the subset used by the pre-build emergency
// pass. When sizes is non-empty it selects by width instead of the built-in
// Critical flags, so the subset boundary stays configurable.
func CriticalRequirements(t Target, sizes []int) []Requirement {
	all := Requirements(t)
	var out []Requirement
	for _, r := range all {
		if len(sizes) > 0 {
			for _, s := range sizes {
				if r.Width == s {
					out = append(out, r)
					break
				}
			}
			continue
		}
		if r.Critical {
			out = append(out, r)
		}
	}
	return out
}

// MaxRequiredSize returns the largest edge in t's requirement table. Repair
// sources below this size can only upscale.
func MaxRequiredSize(t Target) int {
	max := 0
	for _, r := range Requirements(t) {
		if r.Width > max {
			max = r.Width
		}
		if r.Height > max {
			max = r.Height
		}
	}
	return max
}
