package inventory

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfactor/icongate/internal/platform"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeRaw(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestScanEmptyTree(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	snap := Scan(platform.Android, root, nil)

	require.Len(t, snap.Assets, len(platform.Requirements(platform.Android)))
	for _, a := range snap.Assets {
		assert.False(t, a.Present, "no file exists for %s", a.Requirement.Name)
		assert.NoError(t, a.DecodeErr)
	}
}

func TestScanRecordsDimensions(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	req := platform.Requirements(platform.Android)[0]
	writePNG(t, req.Path(platform.Android, root), req.Width, req.Height)

	snap := Scan(platform.Android, root, []platform.Requirement{req})

	require.Len(t, snap.Assets, 1)
	a := snap.Assets[0]
	assert.True(t, a.Present)
	assert.Equal(t, req.Width, a.Width)
	assert.Equal(t, req.Height, a.Height)
	assert.Greater(t, a.ByteSize, int64(0))
	assert.NoError(t, a.DecodeErr)
}

func TestScanZeroByteFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	req := platform.Requirements(platform.IOS)[0]
	writeRaw(t, req.Path(platform.IOS, root), nil)

	snap := Scan(platform.IOS, root, []platform.Requirement{req})

	a := snap.Assets[0]
	assert.True(t, a.Present)
	assert.Equal(t, int64(0), a.ByteSize)
	assert.Equal(t, 0, a.Width)
	assert.NoError(t, a.DecodeErr, "empty files are not probed")
}

func TestScanCorruptFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	req := platform.Requirements(platform.Android)[0]
	writeRaw(t, req.Path(platform.Android, root), []byte("this is not a png"))

	snap := Scan(platform.Android, root, []platform.Requirement{req})

	a := snap.Assets[0]
	assert.True(t, a.Present)
	assert.Error(t, a.DecodeErr)
	assert.Equal(t, 0, a.Width)
}

func TestScanSubsetHonored(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	reqs := platform.CriticalRequirements(platform.Android, nil)

	snap := Scan(platform.Android, root, reqs)

	assert.Len(t, snap.Assets, len(reqs))
}

func TestLargestValid(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	reqs := platform.Requirements(platform.Android)

	// mdpi 48 valid, hdpi 72 corrupt, playstore 512 valid.
	for _, req := range reqs {
		switch req.Width {
		case 48, 512:
			writePNG(t, req.Path(platform.Android, root), req.Width, req.Height)
		case 72:
			writeRaw(t, req.Path(platform.Android, root), []byte("broken"))
		}
	}

	snap := Scan(platform.Android, root, nil)
	best, ok := snap.LargestValid()
	require.True(t, ok)
	assert.Equal(t, 512, best.Width)
}

func TestLargestValidNone(t *testing.T) {
	t.Parallel()
	snap := Scan(platform.IOS, t.TempDir(), nil)
	_, ok := snap.LargestValid()
	assert.False(t, ok)
}

func TestProbeJPEG(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logo.jpg")
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	w, h, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)
}

func TestProbeMissingFile(t *testing.T) {
	t.Parallel()
	_, _, err := Probe(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
