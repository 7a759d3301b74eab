package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/appfactor/icongate/internal/platform"
)

// FileName is the project-local configuration file Resolve looks for when no
// explicit --config path is given.
const FileName = ".icongate.yaml"

// Constants for default values.
const (
	DefaultRoot      = "."
	DefaultThemeName = "default"
)

// Flags holds parsed command-line values together with whether each flag was
// explicitly set. Only explicitly set flags participate in resolution, so a
// flag's default value never shadows the environment or the config file.
type Flags struct {
	ConfigPath string // --config; loading an explicit path must succeed
	Root       string
	Logo       string
	Out        string
	Theme      string
	NoColor    bool
	CI         bool
	DryRun     bool
	Sequential bool
	Verbose    bool

	RootSet       bool
	LogoSet       bool
	OutSet        bool
	ThemeSet      bool
	NoColorSet    bool
	CISet         bool
	DryRunSet     bool
	SequentialSet bool
	VerboseSet    bool
}

// fileConfig mirrors the .icongate.yaml document.
type fileConfig struct {
	Root          string           `yaml:"root,omitempty"`
	Logo          string           `yaml:"logo,omitempty"`
	Report        string           `yaml:"report,omitempty"`
	Theme         string           `yaml:"theme,omitempty"`
	NoColor       bool             `yaml:"no_color"`
	CI            bool             `yaml:"ci"`
	DryRun        bool             `yaml:"dry_run"`
	Sequential    bool             `yaml:"sequential"`
	Verbose       bool             `yaml:"verbose"`
	CriticalSizes map[string][]int `yaml:"critical_sizes,omitempty"` // keyed "ios" / "android"
}

// envConfig is the ICONGATE_* environment overlay. Pointer fields distinguish
// an unset variable from an explicit false.
type envConfig struct {
	Root            string `env:"ICONGATE_ROOT"`
	Logo            string `env:"ICONGATE_LOGO"`
	Report          string `env:"ICONGATE_REPORT"`
	Theme           string `env:"ICONGATE_THEME"`
	NoColor         *bool  `env:"ICONGATE_NO_COLOR"`
	CI              *bool  `env:"ICONGATE_CI"`
	DryRun          *bool  `env:"ICONGATE_DRY_RUN"`
	Sequential      *bool  `env:"ICONGATE_SEQUENTIAL"`
	CriticalIOS     []int  `env:"ICONGATE_CRITICAL_IOS" envSeparator:","`
	CriticalAndroid []int  `env:"ICONGATE_CRITICAL_ANDROID" envSeparator:","`
}

// loadFile reads the config file. An explicit path must load; a discovered
// file that is missing is fine, and one that fails to parse degrades to a
// warning so a broken dotfile cannot take the gate down.
func loadFile(explicit string) (fileConfig, []string, error) {
	var cfg fileConfig

	if explicit != "" {
		data, err := os.ReadFile(explicit)
		if err != nil {
			return cfg, nil, fmt.Errorf("read config %s: %w", explicit, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, nil, fmt.Errorf("parse config %s: %w", explicit, err)
		}
		return cfg, nil, nil
	}

	path := discoverConfigPath()
	if path == "" {
		return cfg, nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil, nil
		}
		return fileConfig{}, []string{fmt.Sprintf("cannot read %s: %v; ignoring it", path, err)}, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, []string{fmt.Sprintf("cannot parse %s: %v; ignoring it", path, err)}, nil
	}
	return cfg, nil, nil
}

// discoverConfigPath checks the working directory first, then the user config
// directory (~/.config/icongate/.icongate.yaml on XDG systems).
func discoverConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "icongate", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// targetByName maps a config key like "ios" to its platform target.
func targetByName(name string) (platform.Target, bool) {
	for _, t := range platform.All() {
		if name == t.String() {
			return t, true
		}
	}
	return platform.Unknown, false
}
