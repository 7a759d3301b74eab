package repair

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/draw"

	"github.com/appfactor/icongate/internal/inventory"
	"github.com/appfactor/icongate/internal/platform"
)

// Origin says where a repair source came from, in selection-priority order.
type Origin int

const (
	OriginLogo Origin = iota
	OriginExisting
	OriginPlaceholder
)

func (o Origin) String() string {
	switch o {
	case OriginLogo:
		return "configured logo"
	case OriginExisting:
		return "existing icon"
	case OriginPlaceholder:
		return "generated placeholder"
	default:
		return "unknown"
	}
}

// Source is the master image a repair pass regenerates icons from.
type Source struct {
	Origin Origin
	Path   string // empty for the generated placeholder
	Image  image.Image
	Width  int
	Height int
}

// Describe renders the source for logs and report repair records.
func (s *Source) Describe() string {
	if s.Path == "" {
		return fmt.Sprintf("%s (%dx%d)", s.Origin, s.Width, s.Height)
	}
	return fmt.Sprintf("%s %s (%dx%d)", s.Origin, s.Path, s.Width, s.Height)
}

// side is the usable square edge after a center crop.
func (s *Source) side() int {
	if s.Height < s.Width {
		return s.Height
	}
	return s.Width
}

// SelectSource picks the master image a repair pass renders from. Candidates
// are tried in priority order: the configured logo, then the largest valid
// icon already in the tree. A candidate smaller than the largest required
// output is passed over when a later candidate covers that size; when every
// loadable candidate is undersized the highest-priority one proceeds under a
// degraded-quality warning. The generated placeholder only backstops trees
// with no loadable image at all.
func SelectSource(snap *inventory.Snapshot, logoPath string) (*Source, []string) {
	want := platform.MaxRequiredSize(snap.Target)
	var warnings []string
	var undersized *Source

	if logoPath != "" {
		src, err := loadSource(OriginLogo, logoPath)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("configured logo unusable: %v", err))
		case src.side() >= want:
			return src, warnings
		default:
			undersized = src
		}
	}

	if best, ok := snap.LargestValid(); ok {
		src, err := loadSource(OriginExisting, best.Path)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("existing icon %s unusable: %v", best.Path, err))
		case src.side() >= want:
			if undersized != nil {
				warnings = append(warnings, fmt.Sprintf(
					"%s cannot cover the largest required icon (%dpx); using %s instead", undersized.Describe(), want, src.Describe()))
			}
			return src, warnings
		case undersized == nil:
			undersized = src
		}
	}

	if undersized != nil {
		warnings = append(warnings, fmt.Sprintf(
			"source %s is smaller than the largest required icon (%dpx); output will be upscaled", undersized.Describe(), want))
		return undersized, warnings
	}

	img := Placeholder(want)
	warnings = append(warnings, "no usable source image; generating placeholder icons")
	return &Source{Origin: OriginPlaceholder, Image: img, Width: want, Height: want}, warnings
}

func loadSource(origin Origin, path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := img.Bounds()
	return &Source{Origin: origin, Path: path, Image: img, Width: b.Dx(), Height: b.Dy()}, nil
}

// renderIcon produces a w x h icon from src: the source's centered square,
// Catmull-Rom resampled to the exact output size.
func renderIcon(src image.Image, w, h int) *image.RGBA {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	sq := image.Rect(0, 0, side, side).
		Add(image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sq, draw.Src, nil)
	return dst
}
