package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAndroidManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.acme.shop">
    <application
        android:label="Acme Shop"
        android:icon="@mipmap/ic_launcher">
        <activity android:name=".MainActivity" android:exported="true"/>
    </application>
</manifest>
`

func TestParseAndroidManifest_IconRef(t *testing.T) {
	t.Parallel()

	m, err := ParseAndroidManifest([]byte(sampleAndroidManifest))
	require.NoError(t, err)
	assert.Equal(t, "@mipmap/ic_launcher", m.IconRef())
}

func TestAndroidManifest_SetIconRef(t *testing.T) {
	t.Parallel()

	m, err := ParseAndroidManifest([]byte(sampleAndroidManifest))
	require.NoError(t, err)

	assert.False(t, m.SetIconRef("@mipmap/ic_launcher"), "same value should report no change")
	assert.True(t, m.SetIconRef("@mipmap/brand_icon"))
	assert.Equal(t, "@mipmap/brand_icon", m.IconRef())
}

func TestAndroidManifest_MissingIconAttr(t *testing.T) {
	t.Parallel()

	doc := `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
  <application android:label="Bare"/>
</manifest>`
	m, err := ParseAndroidManifest([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, m.IconRef())
	assert.True(t, m.SetIconRef("@mipmap/ic_launcher"))
}

func TestAndroidManifest_SaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "AndroidManifest.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleAndroidManifest), 0o644))

	m, err := LoadAndroidManifest(path)
	require.NoError(t, err)
	m.SetIconRef("@mipmap/ic_launcher")
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Untouched attributes survive the rewrite.
	assert.Contains(t, string(data), `android:label="Acme Shop"`)
	assert.Contains(t, string(data), `package="com.acme.shop"`)

	reloaded, err := LoadAndroidManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "@mipmap/ic_launcher", reloaded.IconRef())
}

func TestParseAndroidManifest_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `<manifest><application`},
		{"wrong root", `<resources></resources>`},
		{"no application", `<manifest xmlns:android="http://schemas.android.com/apk/res/android"></manifest>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAndroidManifest([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestBuildAdaptiveIcon(t *testing.T) {
	t.Parallel()

	data := BuildAdaptiveIcon()
	require.NoError(t, CheckAdaptiveIcon(data))

	s := string(data)
	assert.True(t, strings.Contains(s, "<adaptive-icon"), "missing adaptive-icon root: %s", s)
	assert.Contains(t, s, `android:drawable="@mipmap/ic_launcher"`)
	assert.Contains(t, s, "<foreground")
	assert.Contains(t, s, "<background")
}

func TestCheckAdaptiveIcon_Malformed(t *testing.T) {
	t.Parallel()

	assert.Error(t, CheckAdaptiveIcon([]byte(`<adaptive-icon`)), "truncated")
	assert.Error(t, CheckAdaptiveIcon([]byte(`<selector/>`)), "wrong root")
	assert.Error(t, CheckAdaptiveIcon([]byte(`<adaptive-icon><background/></adaptive-icon>`)), "no foreground")
}
