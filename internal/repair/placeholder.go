package repair

import (
	"image"
	"image/color"
)

// Placeholder renders the deterministic last-resort icon: a neutral tile with
// a centered disc. Clearly a stand-in, but square, opaque, and store-preflight
// valid.
func Placeholder(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	tile := color.RGBA{R: 38, G: 50, B: 56, A: 255}
	disc := color.RGBA{R: 96, G: 125, B: 139, A: 255}

	center := float64(size) / 2
	radius := float64(size) * 0.32
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, disc)
			} else {
				img.SetRGBA(x, y, tile)
			}
		}
	}
	return img
}
