package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"

	"github.com/appfactor/icongate/internal/console"
	"github.com/appfactor/icongate/internal/platform"
)

// Config is the fully resolved run configuration the commands consume.
// Resolve is the single source of truth for how the sources combine.
type Config struct {
	Root          string
	Logo          string
	ReportPath    string // empty = <root>/build/icon-compliance-report.txt
	Theme         string
	NoColor       bool
	CI            bool
	DryRun        bool
	Sequential    bool
	Verbose       bool
	CriticalSizes map[platform.Target][]int // emergency subset overrides, nil entry = built-in flags

	// Resolution metadata, printed under --verbose: "cli", "env", "file"
	// or "default".
	RootSource    string
	ThemeSource   string
	NoColorSource string
	CISource      string

	// Non-fatal resolution notes for the caller to surface.
	Warnings []string
}

// Resolve combines CLI flags, ICONGATE_* environment variables, the config
// file and built-in defaults, in that priority order. Explicit user intent
// always wins: CLI > environment > file > defaults.
func Resolve(flags Flags) (*Config, error) {
	fileCfg, warnings, err := loadFile(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Root:          DefaultRoot,
		Theme:         DefaultThemeName,
		RootSource:    "default",
		ThemeSource:   "default",
		NoColorSource: "default",
		CISource:      "default",
		Warnings:      warnings,
	}

	applyFile(cfg, fileCfg)
	applyEnv(cfg)
	applyFlags(cfg, flags)

	// CI mode always implies plain output regardless of where either
	// setting came from.
	if cfg.CI {
		cfg.NoColor = true
	}

	if !console.Known(cfg.Theme) {
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("unknown theme %q; using %q", cfg.Theme, DefaultThemeName))
		cfg.Theme = DefaultThemeName
		cfg.ThemeSource = "default"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, file fileConfig) {
	if file.Root != "" {
		cfg.Root = file.Root
		cfg.RootSource = "file"
	}
	if file.Logo != "" {
		cfg.Logo = file.Logo
	}
	if file.Report != "" {
		cfg.ReportPath = file.Report
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
		cfg.ThemeSource = "file"
	}
	if file.NoColor {
		cfg.NoColor = true
		cfg.NoColorSource = "file"
	}
	if file.CI {
		cfg.CI = true
		cfg.CISource = "file"
	}
	cfg.DryRun = file.DryRun
	cfg.Sequential = file.Sequential
	cfg.Verbose = file.Verbose

	for name, sizes := range file.CriticalSizes {
		t, ok := targetByName(name)
		if !ok {
			cfg.Warnings = append(cfg.Warnings,
				fmt.Sprintf("unknown platform %q in critical_sizes; ignoring it", name))
			continue
		}
		setCriticalSizes(cfg, t, sizes)
	}
}

func applyEnv(cfg *Config) {
	var overlay envConfig
	if err := env.Parse(&overlay); err != nil {
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("ignoring malformed environment overrides: %v", err))
	}

	if overlay.Root != "" {
		cfg.Root = overlay.Root
		cfg.RootSource = "env"
	}
	if overlay.Logo != "" {
		cfg.Logo = overlay.Logo
	}
	if overlay.Report != "" {
		cfg.ReportPath = overlay.Report
	}
	if overlay.Theme != "" {
		cfg.Theme = overlay.Theme
		cfg.ThemeSource = "env"
	}

	if overlay.NoColor != nil {
		cfg.NoColor = *overlay.NoColor
		cfg.NoColorSource = "env"
	} else if b := getEnvBool("NO_COLOR"); b != nil {
		cfg.NoColor = *b
		cfg.NoColorSource = "env"
	}
	if overlay.CI != nil {
		cfg.CI = *overlay.CI
		cfg.CISource = "env"
	} else if b := getEnvBool("CI"); b != nil {
		cfg.CI = *b
		cfg.CISource = "env"
	}
	if overlay.DryRun != nil {
		cfg.DryRun = *overlay.DryRun
	}
	if overlay.Sequential != nil {
		cfg.Sequential = *overlay.Sequential
	}

	if len(overlay.CriticalIOS) > 0 {
		setCriticalSizes(cfg, platform.IOS, overlay.CriticalIOS)
	}
	if len(overlay.CriticalAndroid) > 0 {
		setCriticalSizes(cfg, platform.Android, overlay.CriticalAndroid)
	}
}

func applyFlags(cfg *Config, flags Flags) {
	if flags.RootSet {
		cfg.Root = flags.Root
		cfg.RootSource = "cli"
	}
	if flags.LogoSet {
		cfg.Logo = flags.Logo
	}
	if flags.OutSet {
		cfg.ReportPath = flags.Out
	}
	if flags.ThemeSet {
		cfg.Theme = flags.Theme
		cfg.ThemeSource = "cli"
	}
	if flags.NoColorSet {
		cfg.NoColor = flags.NoColor
		cfg.NoColorSource = "cli"
	}
	if flags.CISet {
		cfg.CI = flags.CI
		cfg.CISource = "cli"
	}
	if flags.DryRunSet {
		cfg.DryRun = flags.DryRun
	}
	if flags.SequentialSet {
		cfg.Sequential = flags.Sequential
	}
	if flags.VerboseSet {
		cfg.Verbose = flags.Verbose
	}
}

func setCriticalSizes(cfg *Config, t platform.Target, sizes []int) {
	if cfg.CriticalSizes == nil {
		cfg.CriticalSizes = make(map[platform.Target][]int)
	}
	cfg.CriticalSizes[t] = append([]int(nil), sizes...)
}

// getEnvBool reads a boolean from environment variables, trying the keys in
// order. Returns nil when none are set to a parseable value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Root == "" {
		return fmt.Errorf("project root is required")
	}
	for t, sizes := range c.CriticalSizes {
		if len(sizes) == 0 {
			return fmt.Errorf("critical sizes for %s must not be empty", t)
		}
		for _, s := range sizes {
			if s <= 0 {
				return fmt.Errorf("invalid critical size %d for %s", s, t)
			}
			if len(platform.CriticalRequirements(t, []int{s})) == 0 {
				return fmt.Errorf("critical size %d matches no %s icon requirement", s, t)
			}
		}
	}
	return nil
}
