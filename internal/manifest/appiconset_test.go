package manifest

import (
	"strings"
	"testing"
)

func TestCanonicalAppIconSet(t *testing.T) {
	set := CanonicalAppIconSet()

	if len(set.Images) != 19 {
		t.Errorf("canonical set has %d slots, want 19", len(set.Images))
	}
	if !set.HasMarketingIcon() {
		t.Error("canonical set must declare the 1024 marketing icon")
	}
	if set.Info.Version != 1 || set.Info.Author != "xcode" {
		t.Errorf("unexpected info trailer: %+v", set.Info)
	}
	for _, img := range set.Images {
		if img.Filename == "" {
			t.Errorf("slot %s/%s@%s has no filename", img.Idiom, img.Size, img.Scale)
		}
		if !strings.HasPrefix(img.Filename, "Icon-App-") || !strings.HasSuffix(img.Filename, ".png") {
			t.Errorf("unexpected filename %q", img.Filename)
		}
	}
}

func TestCanonicalAppIconSet_SharedFiles(t *testing.T) {
	set := CanonicalAppIconSet()
	// iphone 20x20@2x and ipad 20x20@2x resolve to the same 40px file.
	files := set.Filenames()
	for i, a := range files {
		for _, b := range files[i+1:] {
			if a == b {
				t.Errorf("Filenames returned duplicate %q", a)
			}
		}
	}
	if len(files) >= len(set.Images) {
		t.Errorf("expected shared files across idioms: %d files for %d slots", len(files), len(set.Images))
	}
}

func TestAppIconSet_RoundTrip(t *testing.T) {
	set := CanonicalAppIconSet()
	data, err := set.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("Marshal() output missing trailing newline")
	}

	parsed, err := ParseAppIconSet(data)
	if err != nil {
		t.Fatalf("ParseAppIconSet() error = %v", err)
	}
	if len(parsed.Images) != len(set.Images) {
		t.Errorf("round trip lost slots: %d != %d", len(parsed.Images), len(set.Images))
	}
	if !parsed.HasMarketingIcon() {
		t.Error("round trip lost the marketing icon slot")
	}

	// Byte-stable: marshal of the parse equals the original render.
	again, err := parsed.Marshal()
	if err != nil {
		t.Fatalf("second Marshal() error = %v", err)
	}
	if string(again) != string(data) {
		t.Error("Marshal() output is not byte-stable across a round trip")
	}
}

func TestParseAppIconSet_Malformed(t *testing.T) {
	if _, err := ParseAppIconSet([]byte(`{"images": [`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestHasMarketingIcon_Negative(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "no marketing slot",
			json: `{"images":[{"size":"60x60","idiom":"iphone","filename":"a.png","scale":"2x"}],"info":{"version":1,"author":"xcode"}}`,
		},
		{
			name: "marketing slot without filename",
			json: `{"images":[{"size":"1024x1024","idiom":"ios-marketing","scale":"1x"}],"info":{"version":1,"author":"xcode"}}`,
		},
		{
			name: "marketing slot restricted to dark appearance",
			json: `{"images":[{"size":"1024x1024","idiom":"ios-marketing","filename":"d.png","scale":"1x","appearances":[{"appearance":"luminosity","value":"dark"}]}],"info":{"version":1,"author":"xcode"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseAppIconSet([]byte(tt.json))
			if err != nil {
				t.Fatalf("ParseAppIconSet() error = %v", err)
			}
			if set.HasMarketingIcon() {
				t.Error("HasMarketingIcon() = true, want false")
			}
		})
	}
}

func TestSlotFilename(t *testing.T) {
	if got := SlotFilename("83.5x83.5", "2x"); got != "Icon-App-83.5x83.5@2x.png" {
		t.Errorf("SlotFilename() = %q", got)
	}
}
