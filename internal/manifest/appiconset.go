// Package manifest reads and writes the per-platform manifest files the
// pipeline validates and repairs: the iOS asset-catalog Contents.json, the
// iOS Info.plist, the AndroidManifest.xml, and the Android adaptive-icon
// declaration.
package manifest

import (
	"encoding/json"
	"fmt"
)

// AppIconSet models an AppIcon.appiconset Contents.json document.
type AppIconSet struct {
	Images []AppIconImage `json:"images"`
	Info   AppIconInfo    `json:"info"`
}

// AppIconImage is one slot declaration inside the icon set.
type AppIconImage struct {
	Size        string       `json:"size"`
	Idiom       string       `json:"idiom"`
	Filename    string       `json:"filename,omitempty"`
	Scale       string       `json:"scale"`
	Appearances []Appearance `json:"appearances,omitempty"`
}

// Appearance restricts a slot to dark/tinted variants. Slots without
// appearances are the universal "any appearance" entries.
type Appearance struct {
	Appearance string `json:"appearance"`
	Value      string `json:"value"`
}

// AppIconInfo is the fixed trailer Xcode stamps on every Contents.json.
type AppIconInfo struct {
	Version int    `json:"version"`
	Author  string `json:"author"`
}

const marketingIdiom = "ios-marketing"

// appIconSlots enumerates every slot of the canonical icon set. Filenames
// derive from size and scale, so slots with equal pixel dimensions share one
// file the way Xcode's template does.
var appIconSlots = []struct {
	idiom string
	size  string
	scale string
}{
	{"iphone", "20x20", "2x"},
	{"iphone", "20x20", "3x"},
	{"iphone", "29x29", "1x"},
	{"iphone", "29x29", "2x"},
	{"iphone", "29x29", "3x"},
	{"iphone", "40x40", "2x"},
	{"iphone", "40x40", "3x"},
	{"iphone", "60x60", "2x"},
	{"iphone", "60x60", "3x"},
	{"ipad", "20x20", "1x"},
	{"ipad", "20x20", "2x"},
	{"ipad", "29x29", "1x"},
	{"ipad", "29x29", "2x"},
	{"ipad", "40x40", "1x"},
	{"ipad", "40x40", "2x"},
	{"ipad", "76x76", "1x"},
	{"ipad", "76x76", "2x"},
	{"ipad", "83.5x83.5", "2x"},
	{marketingIdiom, "1024x1024", "1x"},
}

// CanonicalAppIconSet builds the complete icon set declaration with every
// slot pointing at its derived filename. Repair writes this wholesale,
// replacing whatever was there before.
func CanonicalAppIconSet() *AppIconSet {
	set := &AppIconSet{Info: AppIconInfo{Version: 1, Author: "xcode"}}
	for _, s := range appIconSlots {
		set.Images = append(set.Images, AppIconImage{
			Size:     s.size,
			Idiom:    s.idiom,
			Filename: SlotFilename(s.size, s.scale),
			Scale:    s.scale,
		})
	}
	return set
}

// SlotFilename derives the icon filename for a size/scale pair,
// e.g. "Icon-App-60x60@2x.png".
func SlotFilename(size, scale string) string {
	return fmt.Sprintf("Icon-App-%s@%s.png", size, scale)
}

// ParseAppIconSet decodes a Contents.json document. A syntax error here is a
// validation failure for the whole platform, so the error carries context.
func ParseAppIconSet(data []byte) (*AppIconSet, error) {
	var set AppIconSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse Contents.json: %w", err)
	}
	return &set, nil
}

// Marshal renders the set in Xcode's two-space indented style with a
// trailing newline, byte-stable across runs.
func (s *AppIconSet) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode Contents.json: %w", err)
	}
	return append(data, '\n'), nil
}

// HasMarketingIcon reports whether the set declares the 1024x1024 store icon
// in the universal slot: ios-marketing idiom, no appearance restriction, and
// a filename actually assigned.
func (s *AppIconSet) HasMarketingIcon() bool {
	for _, img := range s.Images {
		if img.Idiom == marketingIdiom && img.Size == "1024x1024" &&
			len(img.Appearances) == 0 && img.Filename != "" {
			return true
		}
	}
	return false
}

// Filenames returns the distinct files the set references, in declaration
// order.
func (s *AppIconSet) Filenames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, img := range s.Images {
		if img.Filename == "" || seen[img.Filename] {
			continue
		}
		seen[img.Filename] = true
		out = append(out, img.Filename)
	}
	return out
}
