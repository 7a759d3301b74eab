package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appfactor/icongate/internal/detect"
	"github.com/appfactor/icongate/internal/manifest"
	"github.com/appfactor/icongate/internal/platform"
)

func writeRaw(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 90, G: 160, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	writeRaw(t, path, buf.Bytes())
}

func plistXML(iconName string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleDisplayName</key>
	<string>Acme Shop</string>
	<key>CFBundleIconName</key>
	<string>` + iconName + `</string>
</dict>
</plist>
`)
}

var androidManifestXML = []byte(`<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.acme.shop">
    <application android:label="Acme Shop" android:icon="@mipmap/ic_launcher">
        <activity android:name=".MainActivity"/>
    </application>
</manifest>
`)

// writeManifests lays down valid asset and app manifests without any icons.
func writeManifests(t *testing.T, root string, target platform.Target) {
	t.Helper()
	switch target {
	case platform.IOS:
		data, err := manifest.CanonicalAppIconSet().Marshal()
		require.NoError(t, err)
		writeRaw(t, target.AssetManifestPath(root), data)
		writeRaw(t, target.AppManifestPath(root), plistXML("AppIcon"))
	case platform.Android:
		writeRaw(t, target.AssetManifestPath(root), manifest.BuildAdaptiveIcon())
		writeRaw(t, target.AppManifestPath(root), androidManifestXML)
	}
}

func writeCompliant(t *testing.T, root string, target platform.Target) {
	t.Helper()
	for _, req := range platform.Requirements(target) {
		writePNG(t, req.Path(target, root), req.Width, req.Height)
	}
	writeManifests(t, root, target)
}

func runPipeline(t *testing.T, opts Options) *RunResult {
	t.Helper()
	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, res.ArtifactErr)
	return res
}

func artifactBody(t *testing.T, res *RunResult) string {
	t.Helper()
	data, err := os.ReadFile(res.ArtifactPath)
	require.NoError(t, err)
	return string(data)
}

// treeTimes snapshots every file's mtime under the platform subtrees,
// excluding the report artifact.
func treeTimes(t *testing.T, root string) map[string]time.Time {
	t.Helper()
	times := make(map[string]time.Time)
	for _, target := range platform.All() {
		dir := target.Dir(root)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			times[path] = info.ModTime()
			return nil
		})
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		require.NoError(t, err)
	}
	return times
}

func TestRunBothPlatformsCompliant(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeCompliant(t, root, platform.IOS)
	writeCompliant(t, root, platform.Android)

	res := runPipeline(t, Options{Root: root})

	assert.True(t, res.Gate)
	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.True(t, o.Detected)
		assert.True(t, o.Ready)
		assert.Equal(t, Validated, o.State, "compliant platforms never reach repair")
		assert.Nil(t, o.Repair)
	}

	body := artifactBody(t, res)
	assert.Contains(t, body, "App Store Compliance: READY")
	assert.Contains(t, body, "Play Store Compliance: READY")
}

func TestRunRepairsBrokenTreeThenPasses(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeManifests(t, root, platform.Android)
	// one wrong-size icon, the rest missing
	req := platform.CriticalRequirements(platform.Android, []int{512})[0]
	writePNG(t, req.Path(platform.Android, root), 500, 500)

	res := runPipeline(t, Options{Root: root})

	require.Len(t, res.Outcomes, 2)
	ios, android := res.Outcomes[0], res.Outcomes[1]
	assert.False(t, ios.Detected)
	assert.Equal(t, NotDetected, ios.State)

	assert.True(t, android.Ready)
	assert.Equal(t, Revalidated, android.State)
	require.NotNil(t, android.Repair)
	assert.Len(t, android.Repair.Records, len(platform.Requirements(platform.Android)))
	assert.True(t, res.Gate)

	body := artifactBody(t, res)
	assert.Contains(t, body, "not present in this project; skipped")
	assert.NotContains(t, body, "App Store Compliance:")
	assert.Contains(t, body, "Play Store Compliance: READY")
}

func stripVolatile(body string) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "Generated:") || strings.HasPrefix(line, "Run ID:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func TestRunIdempotentOnCompliantTree(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeManifests(t, root, platform.Android)

	// First run repairs the tree to compliance.
	first := runPipeline(t, Options{Root: root})
	require.True(t, first.Gate)

	second := runPipeline(t, Options{Root: root})
	before := treeTimes(t, root)

	third := runPipeline(t, Options{Root: root})
	after := treeTimes(t, root)

	for _, o := range third.Outcomes {
		assert.Nil(t, o.Repair, "%s: compliant tree must not trigger repair", o.Target)
	}
	assert.Equal(t, before, after, "second compliant run must write nothing in the tree")
	assert.Equal(t,
		stripVolatile(artifactBody(t, second)),
		stripVolatile(artifactBody(t, third)),
		"report body must be identical modulo run ID and timestamp")
}

func TestRunOneReadyPlatformPassesGate(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeCompliant(t, root, platform.IOS)
	// Android present but unrepairable: its app manifest is missing and
	// cannot be invented.
	for _, req := range platform.Requirements(platform.Android) {
		writePNG(t, req.Path(platform.Android, root), req.Width, req.Height)
	}
	writeRaw(t, platform.Android.AssetManifestPath(root), manifest.BuildAdaptiveIcon())

	res := runPipeline(t, Options{Root: root})

	assert.True(t, res.Gate, "one ready platform is enough")
	ios, android := res.Outcomes[0], res.Outcomes[1]
	assert.True(t, ios.Ready)
	assert.False(t, android.Ready)
	assert.Equal(t, Revalidated, android.State)

	body := artifactBody(t, res)
	assert.Contains(t, body, "App Store Compliance: READY")
	assert.Contains(t, body, "Play Store Compliance: NOT READY")
}

func TestRunAllPlatformsFailingFailsGate(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	// Both present, both missing their app manifests entirely.
	for _, target := range platform.All() {
		for _, req := range platform.Requirements(target) {
			writePNG(t, req.Path(target, root), req.Width, req.Height)
		}
	}
	data, err := manifest.CanonicalAppIconSet().Marshal()
	require.NoError(t, err)
	writeRaw(t, platform.IOS.AssetManifestPath(root), data)
	writeRaw(t, platform.Android.AssetManifestPath(root), manifest.BuildAdaptiveIcon())

	res := runPipeline(t, Options{Root: root})

	assert.False(t, res.Gate)
	body := artifactBody(t, res)
	assert.Contains(t, body, "App Store Compliance: NOT READY")
	assert.Contains(t, body, "Play Store Compliance: NOT READY")
	assert.Contains(t, body, "Gate: FAIL (0 of 2 detected platforms ready)")
}

func countPNGs(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".png") {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func TestRunEmergencyRestrictsToCriticalSubset(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeManifests(t, root, platform.IOS)
	writeManifests(t, root, platform.Android)

	res := runPipeline(t, Options{Root: root, Emergency: true})

	assert.True(t, res.Gate)
	for _, o := range res.Outcomes {
		assert.True(t, o.Ready, "%s emergency subset should repair clean", o.Target)
	}
	// Default critical subset: 2 icons per platform, nothing else written.
	assert.Equal(t, 2, countPNGs(t, platform.IOS.Dir(root)))
	assert.Equal(t, 2, countPNGs(t, platform.Android.Dir(root)))

	body := artifactBody(t, res)
	assert.Contains(t, body, "Mode:      emergency (critical sizes only)")
	assert.Contains(t, body, "Icons: 2/2 pass")
}

func TestRunEmergencyConfiguredSizes(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeManifests(t, root, platform.Android)

	res := runPipeline(t, Options{
		Root:          root,
		Emergency:     true,
		CriticalSizes: map[platform.Target][]int{platform.Android: {48}},
	})

	assert.True(t, res.Gate)
	assert.Equal(t, 1, countPNGs(t, platform.Android.Dir(root)))
	mdpi := platform.Requirements(platform.Android)[0]
	_, statErr := os.Stat(mdpi.Path(platform.Android, root))
	assert.NoError(t, statErr, "configured 48px slot must be the one repaired")
}

func TestRunDryRunWritesNoIcons(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeManifests(t, root, platform.Android)
	before := treeTimes(t, root)

	res := runPipeline(t, Options{Root: root, DryRun: true})

	assert.False(t, res.Gate, "a dry run cannot make a broken tree ready")
	android := res.Outcomes[1]
	require.NotNil(t, android.Repair)
	assert.True(t, android.Repair.DryRun)
	assert.NotEmpty(t, android.Repair.Records)
	assert.Equal(t, Repaired, android.State, "dry runs stop before revalidation")
	assert.Equal(t, before, treeTimes(t, root))

	body := artifactBody(t, res)
	assert.Contains(t, body, "Dry run:   no files were written")
	assert.Contains(t, body, "Repairs planned:")
}

func TestRunNoPlatformsIsFatal(t *testing.T) {
	t.Parallel()
	res, err := Run(context.Background(), Options{Root: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, detect.ErrNoPlatform))
	assert.Nil(t, res)
}

func TestRunPublishesUpdatesAndClosesChannel(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeManifests(t, root, platform.Android)

	updates := make(chan Update, 64)
	res, err := Run(context.Background(), Options{Root: root, Updates: updates})
	require.NoError(t, err)
	require.True(t, res.Gate)

	var states []State
	for u := range updates { // terminates because Run closed the channel
		if u.Target == platform.Android {
			states = append(states, u.State)
		}
	}
	assert.Equal(t, []State{Detected, Inventoried, Validated, Repaired, Revalidated}, states)
}

func TestRunSequentialOption(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeManifests(t, root, platform.IOS)
	writeManifests(t, root, platform.Android)

	res := runPipeline(t, Options{Root: root, Sequential: true})

	assert.True(t, res.Gate)
	for _, o := range res.Outcomes {
		assert.True(t, o.Ready)
	}
}

func TestStateStrings(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{NotDetected, "not detected"},
		{Detected, "detected"},
		{Inventoried, "inventoried"},
		{Validated, "validated"},
		{Repaired, "repaired"},
		{Revalidated, "revalidated"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}
