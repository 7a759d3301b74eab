// Package config resolves the run configuration for icongate.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--root, --logo, --out, --theme, --no-color, --ci, ...)
//  2. Environment variables (ICONGATE_*, then generic NO_COLOR and CI)
//  3. YAML config file (.icongate.yaml in the working directory or
//     ~/.config/icongate/.icongate.yaml)
//  4. Built-in defaults
//
// When a higher-priority source sets a value, it overrides any
// lower-priority values. A flag only participates when it was explicitly
// set on the command line.
//
// # CI Mode Behavior
//
// When CI mode is enabled (via --ci, ICONGATE_CI/CI, or ci: true in YAML):
//   - Colors are disabled (monochrome console output)
//   - The live progress view is unavailable
//   - Output is optimized for log file readability
//
// # Environment Variables
//
// The following environment variables are recognized:
//
//   - ICONGATE_ROOT: project root to inspect
//   - ICONGATE_LOGO: source logo for icon regeneration
//   - ICONGATE_REPORT: report artifact path
//   - ICONGATE_THEME: console theme name (default, orca, mono)
//   - ICONGATE_NO_COLOR or NO_COLOR: "true"/"1" to disable colors
//   - ICONGATE_CI or CI: "true"/"1" to enable CI mode
//   - ICONGATE_DRY_RUN: "true"/"1" to plan repairs without writing
//   - ICONGATE_SEQUENTIAL: "true"/"1" to process platforms one at a time
//   - ICONGATE_CRITICAL_IOS, ICONGATE_CRITICAL_ANDROID: comma-separated
//     pixel sizes overriding the emergency-mode critical subset
package config
