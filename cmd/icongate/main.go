// icongate gates mobile store submissions on app icon compliance.
//
// Usage:
//
//	icongate run --root . --logo assets/logo.png
//	icongate emergency --root /srv/checkout --ci
//	icongate detect --root .
//	icongate report --root .
//	icongate version
//
// run validates the ios/ and android/ icon trees against the store
// requirement tables, repairs what it can, and writes
// build/icon-compliance-report.txt under the project root. emergency does
// the same for the critical sizes only. The rendered report goes to stdout;
// progress lines go to stderr.
//
// Exit codes: 0 when at least one detected platform is ready for store
// submission, 1 when none is, 2 on usage errors or when no platform tree
// exists under the root.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/appfactor/icongate/internal/config"
	"github.com/appfactor/icongate/internal/console"
	"github.com/appfactor/icongate/internal/detect"
	"github.com/appfactor/icongate/internal/live"
	"github.com/appfactor/icongate/internal/pipeline"
	"github.com/appfactor/icongate/internal/report"
	"github.com/appfactor/icongate/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	rest := args[1:]
	switch args[0] {
	case "run":
		return runGate(rest, stdout, stderr, false)
	case "emergency":
		return runGate(rest, stdout, stderr, true)
	case "detect":
		return runDetect(rest, stdout, stderr)
	case "report":
		return runReport(rest, stdin, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "icongate version %s\n", version.Version)
		fmt.Fprintf(stdout, "Commit: %s\n", version.CommitHash)
		fmt.Fprintf(stdout, "Built: %s\n", version.BuildDate)
		return 0
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "icongate: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: icongate <command> [flags]

Commands:
  run        validate and repair all required icons, then gate
  emergency  validate and repair the critical sizes only, then gate
  detect     list the platform trees present under the root
  report     print the last report's compliance markers and gate on them
  version    print version information

Run 'icongate <command> -h' for command flags.
`)
}

// gateOptions carries the resolved config plus the presentation-only flags
// that never participate in config resolution.
type gateOptions struct {
	cfg     *config.Config
	jsonOut bool
	liveUI  bool
}

func parseGateFlags(name string, args []string, stderr io.Writer) (*gateOptions, int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var flags config.Flags
	var envFile string
	var jsonOut, liveUI bool
	fs.StringVar(&flags.Root, "root", config.DefaultRoot, "Project root containing ios/ and/or android/")
	fs.StringVar(&flags.Logo, "logo", "", "Source logo image for icon regeneration")
	fs.StringVar(&flags.Out, "out", "", "Report artifact path (default <root>/"+report.DefaultArtifactPath+")")
	fs.StringVar(&flags.Theme, "theme", config.DefaultThemeName, "Console theme: default, orca, mono")
	fs.BoolVar(&flags.NoColor, "no-color", false, "Disable ANSI color output")
	fs.BoolVar(&flags.CI, "ci", false, "CI mode: plain output, no live view")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "Plan repairs without writing any icon files")
	fs.BoolVar(&flags.Sequential, "sequential", false, "Process platforms one at a time")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Show per-step detail lines")
	fs.StringVar(&flags.ConfigPath, "config", "", "Explicit config file (default "+config.FileName+")")
	fs.StringVar(&envFile, "env-file", "", "Load environment variables from this file before resolving config")
	fs.BoolVar(&jsonOut, "json", false, "Print the report as JSON on stdout")
	fs.BoolVar(&liveUI, "live", false, "Show a live progress view (TTY only)")
	if err := fs.Parse(args); err != nil {
		return nil, 2
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			flags.RootSet = true
		case "logo":
			flags.LogoSet = true
		case "out":
			flags.OutSet = true
		case "theme":
			flags.ThemeSet = true
		case "no-color":
			flags.NoColorSet = true
		case "ci":
			flags.CISet = true
		case "dry-run":
			flags.DryRunSet = true
		case "sequential":
			flags.SequentialSet = true
		case "verbose":
			flags.VerboseSet = true
		}
	})

	// The env file must be in place before the ICONGATE_* overlay is read.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(stderr, "icongate: load env file: %v\n", err)
			return nil, 2
		}
	}

	cfg, err := config.Resolve(flags)
	if err != nil {
		fmt.Fprintf(stderr, "icongate: %v\n", err)
		return nil, 2
	}
	return &gateOptions{cfg: cfg, jsonOut: jsonOut, liveUI: liveUI}, 0
}

func runGate(args []string, stdout, stderr io.Writer, emergency bool) int {
	name := "icongate run"
	if emergency {
		name = "icongate emergency"
	}
	opts, code := parseGateFlags(name, args, stderr)
	if opts == nil {
		return code
	}
	cfg := opts.cfg

	theme := console.MonoTheme()
	if !cfg.NoColor {
		theme = console.AutoTheme(cfg.Theme, stderr, cfg.CI)
	}
	con := console.New(stderr, theme, cfg.Verbose)
	for _, w := range cfg.Warnings {
		con.Warn("%s", w)
	}
	con.Detail("root %s (%s), theme %s (%s)", cfg.Root, cfg.RootSource, cfg.Theme, cfg.ThemeSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	updates := make(chan pipeline.Update, 64)
	popts := pipeline.Options{
		Root:          cfg.Root,
		LogoPath:      cfg.Logo,
		ArtifactPath:  cfg.ReportPath,
		DryRun:        cfg.DryRun,
		Emergency:     emergency,
		CriticalSizes: cfg.CriticalSizes,
		Sequential:    cfg.Sequential,
		Updates:       updates,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var res *pipeline.RunResult
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = pipeline.Run(runCtx, popts)
	}()

	if opts.liveUI && !cfg.CI && console.IsTTY(stdout) {
		if err := live.Run(runCtx, updates, theme); err != nil {
			con.Warn("live view failed: %v", err)
		}
		// The view quitting early means the user aborted.
		cancel()
	} else {
		logUpdates(con, updates)
	}
	<-done

	if runErr != nil {
		con.Error("%v", runErr)
		return 2
	}
	return finishGate(con, stdout, res, opts.jsonOut)
}

// logUpdates prints progress lines until the pipeline closes the channel.
func logUpdates(con *console.Console, updates <-chan pipeline.Update) {
	for u := range updates {
		name := u.Target.DisplayName()
		switch {
		case u.State == pipeline.NotDetected:
			con.Detail("%s not present; skipped", name)
		case u.Ready:
			con.Success("%s %s", name, u.Note)
		case u.State == pipeline.Revalidated:
			con.Error("%s %s", name, u.Note)
		case u.State == pipeline.Repaired:
			con.Info("%s %s", name, u.Note)
		default:
			con.Detail("%s %s: %s", name, u.State, u.Note)
		}
	}
}

func finishGate(con *console.Console, stdout io.Writer, res *pipeline.RunResult, jsonOut bool) int {
	for _, p := range res.Report.Platforms {
		for _, w := range p.Warnings {
			con.Warn("%s: %s", p.Target.DisplayName(), w)
		}
	}
	if res.ArtifactErr != nil {
		con.Warn("could not write report artifact: %v", res.ArtifactErr)
	} else {
		con.Detail("report written to %s", res.ArtifactPath)
	}

	if jsonOut {
		fmt.Fprint(stdout, report.NewJSON().Render(res.Report))
	} else {
		fmt.Fprint(stdout, report.NewText().Render(res.Report))
	}

	if res.Gate {
		return 0
	}
	con.Error("no detected platform is store-ready")
	return 1
}

func runDetect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("icongate detect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", config.DefaultRoot, "Project root to inspect")
	jsonOut := fs.Bool("json", false, "Print the platform list as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	targets, err := detect.Platforms(*root)
	if err != nil {
		fmt.Fprintf(stderr, "icongate: %v\n", err)
		return 2
	}

	if *jsonOut {
		names := make([]string, 0, len(targets))
		for _, t := range targets {
			names = append(names, t.String())
		}
		data, merr := json.MarshalIndent(map[string]any{"platforms": names}, "", "  ")
		if merr != nil {
			fmt.Fprintf(stderr, "icongate: %v\n", merr)
			return 2
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}
	for _, t := range targets {
		fmt.Fprintln(stdout, t)
	}
	return 0
}

// runReport re-reads a previously written artifact and gates on its
// compliance markers, so build drivers can check the last run without
// re-running the pipeline.
func runReport(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("icongate report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", config.DefaultRoot, "Project root the report was written under")
	in := fs.String("in", "", "Report file to read instead of the default path; '-' for stdin")
	jsonOut := fs.Bool("json", false, "Print the gates as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var data []byte
	var err error
	switch {
	case *in == "-":
		data, err = io.ReadAll(stdin)
	case *in != "":
		data, err = os.ReadFile(*in)
	default:
		data, err = os.ReadFile(filepath.Join(*root, report.DefaultArtifactPath))
	}
	if err != nil {
		fmt.Fprintf(stderr, "icongate: read report: %v\n", err)
		return 2
	}

	gates, err := report.ParseArtifact(data)
	if err != nil {
		fmt.Fprintf(stderr, "icongate: %v\n", err)
		return 2
	}

	success := false
	for _, g := range gates {
		if g.Ready {
			success = true
		}
	}

	if *jsonOut {
		out, merr := json.MarshalIndent(map[string]any{
			"gates":        gates,
			"gate_success": success,
		}, "", "  ")
		if merr != nil {
			fmt.Fprintf(stderr, "icongate: %v\n", merr)
			return 2
		}
		fmt.Fprintln(stdout, string(out))
	} else {
		for _, g := range gates {
			status := "NOT READY"
			if g.Ready {
				status = "READY"
			}
			fmt.Fprintf(stdout, "%s Compliance: %s\n", g.Store, status)
		}
	}

	if success {
		return 0
	}
	return 1
}
