package manifest

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// iconAttr is the application attribute Play validation resolves the
// launcher icon through.
const iconAttr = "android:icon"

// AndroidManifest wraps a parsed AndroidManifest.xml. etree preserves
// attribute order and namespace prefixes, so untouched parts survive a
// rewrite byte-for-byte.
type AndroidManifest struct {
	doc *etree.Document
}

// LoadAndroidManifest reads and parses the manifest at path.
func LoadAndroidManifest(path string) (*AndroidManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseAndroidManifest(data)
}

// ParseAndroidManifest parses manifest bytes and checks the document has the
// expected manifest/application skeleton.
func ParseAndroidManifest(data []byte) (*AndroidManifest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse AndroidManifest.xml: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "manifest" {
		return nil, fmt.Errorf("parse AndroidManifest.xml: missing <manifest> root")
	}
	if root.SelectElement("application") == nil {
		return nil, fmt.Errorf("parse AndroidManifest.xml: missing <application> element")
	}
	return &AndroidManifest{doc: doc}, nil
}

// IconRef returns the android:icon attribute value, or "" when absent.
func (m *AndroidManifest) IconRef() string {
	app := m.doc.Root().SelectElement("application")
	return app.SelectAttrValue(iconAttr, "")
}

// SetIconRef points android:icon at ref, reporting whether the value changed.
func (m *AndroidManifest) SetIconRef(ref string) bool {
	app := m.doc.Root().SelectElement("application")
	if app.SelectAttrValue(iconAttr, "") == ref {
		return false
	}
	app.CreateAttr(iconAttr, ref)
	return true
}

// Save writes the manifest back to path.
func (m *AndroidManifest) Save(path string) error {
	data, err := m.doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("encode AndroidManifest.xml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
