package manifest

import (
	"bytes"
	"fmt"
	"os"

	"howett.net/plist"
)

// iconNameKey is the Info.plist key App Store validation resolves the
// asset-catalog icon set through.
const iconNameKey = "CFBundleIconName"

// InfoPlist wraps a decoded Info.plist dictionary. Only the icon-name key is
// interpreted; everything else round-trips untouched.
type InfoPlist struct {
	values map[string]interface{}
}

// LoadInfoPlist reads and decodes the plist at path.
func LoadInfoPlist(path string) (*InfoPlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseInfoPlist(data)
}

// ParseInfoPlist decodes plist bytes. Malformed documents are a validation
// failure, not a crash.
func ParseInfoPlist(data []byte) (*InfoPlist, error) {
	values := make(map[string]interface{})
	dec := plist.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("parse Info.plist: %w", err)
	}
	return &InfoPlist{values: values}, nil
}

// IconName returns the CFBundleIconName value, or "" when absent or not a
// string.
func (p *InfoPlist) IconName() string {
	v, ok := p.values[iconNameKey]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// SetIconName writes the icon-name key, reporting whether the value changed.
func (p *InfoPlist) SetIconName(name string) bool {
	if p.IconName() == name {
		return false
	}
	p.values[iconNameKey] = name
	return true
}

// Save re-encodes the plist to path in XML format.
func (p *InfoPlist) Save(path string) error {
	data, err := plist.MarshalIndent(p.values, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("encode Info.plist: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
