package manifest

import (
	"fmt"

	"github.com/beevik/etree"
)

// launcherRef is the drawable both adaptive-icon layers point at after a
// repair.
const launcherRef = "@mipmap/ic_launcher"

// BuildAdaptiveIcon renders the canonical mipmap-anydpi-v26/ic_launcher.xml
// declaration. Repair writes this wholesale, replacing any prior content so
// no stale layer references survive.
func BuildAdaptiveIcon() []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("adaptive-icon")
	root.CreateAttr("xmlns:android", "http://schemas.android.com/apk/res/android")
	root.CreateElement("background").CreateAttr("android:drawable", launcherRef)
	root.CreateElement("foreground").CreateAttr("android:drawable", launcherRef)
	doc.Indent(4)
	// Serializing an in-memory document to bytes cannot fail.
	data, _ := doc.WriteToBytes()
	return data
}

// CheckAdaptiveIcon validates an adaptive-icon declaration: well-formed XML
// with an <adaptive-icon> root declaring a foreground layer.
func CheckAdaptiveIcon(data []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("parse adaptive icon: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "adaptive-icon" {
		return fmt.Errorf("parse adaptive icon: missing <adaptive-icon> root")
	}
	if root.SelectElement("foreground") == nil {
		return fmt.Errorf("parse adaptive icon: missing <foreground> layer")
	}
	return nil
}
