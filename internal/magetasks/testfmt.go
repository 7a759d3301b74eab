package magetasks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// TestEvent is one line of `go test -json` output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// PackageResult holds aggregated test results for one package.
type PackageResult struct {
	Name        string
	Passed      int
	Failed      int
	Skipped     int
	Duration    time.Duration
	Coverage    float64
	FailedTests []string
}

// TestFormatter condenses a `go test -json` stream into one line per
// package, grouped by top-level directory.
type TestFormatter struct {
	packages  map[string]*PackageResult
	completed []*PackageResult
	out       io.Writer
}

// NewTestFormatter creates a formatter writing to w.
func NewTestFormatter(w io.Writer) *TestFormatter {
	return &TestFormatter{
		packages: make(map[string]*PackageResult),
		out:      w,
	}
}

// RunTests executes go test with JSON output and renders the summary. The
// summary prints even when tests fail; the go test exit status is returned.
func (f *TestFormatter) RunTests(args []string) error {
	cmdArgs := append([]string{"test", "-json"}, args...)
	cmd := exec.Command("go", cmdArgs...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("start tests: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		var event TestEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue // build failures emit non-JSON lines
		}
		f.ProcessEvent(event)
	}

	err = cmd.Wait()
	f.RenderSummary()
	return err
}

// ProcessEvent folds one event into the per-package counters. Events with an
// empty Test name mark the package itself completing.
func (f *TestFormatter) ProcessEvent(event TestEvent) {
	if event.Package == "" {
		return
	}
	pkg := f.getOrCreate(event.Package)

	switch event.Action {
	case "pass":
		if event.Test != "" {
			pkg.Passed++
		} else {
			pkg.Duration = time.Duration(event.Elapsed * float64(time.Second))
			f.completed = append(f.completed, pkg)
		}
	case "fail":
		if event.Test != "" {
			pkg.Failed++
			pkg.FailedTests = append(pkg.FailedTests, event.Test)
		} else {
			pkg.Duration = time.Duration(event.Elapsed * float64(time.Second))
			f.completed = append(f.completed, pkg)
		}
	case "skip":
		if event.Test != "" {
			pkg.Skipped++
		} else {
			// Package with no test files.
			f.completed = append(f.completed, pkg)
		}
	case "output":
		if i := strings.Index(event.Output, "coverage:"); i >= 0 {
			var cov float64
			if _, err := fmt.Sscanf(event.Output[i:], "coverage: %f%% of statements", &cov); err == nil {
				pkg.Coverage = cov
			}
		}
	}
}

func (f *TestFormatter) getOrCreate(name string) *PackageResult {
	if pkg, ok := f.packages[name]; ok {
		return pkg
	}
	pkg := &PackageResult{Name: name}
	f.packages[name] = pkg
	return pkg
}

// RenderSummary prints the grouped per-package lines and a totals row.
func (f *TestFormatter) RenderSummary() {
	sort.Slice(f.completed, func(i, j int) bool { return f.completed[i].Name < f.completed[j].Name })

	var lastGroup string
	var totals PackageResult
	for _, pkg := range f.completed {
		if group := topDir(pkg.Name); group != lastGroup {
			fmt.Fprintln(f.out, theme.Bold.Render(group))
			lastGroup = group
		}
		fmt.Fprintln(f.out, "  "+f.packageLine(pkg))
		for _, name := range pkg.FailedTests {
			fmt.Fprintln(f.out, "      "+theme.Error.Render(name))
		}
		totals.Passed += pkg.Passed
		totals.Failed += pkg.Failed
		totals.Skipped += pkg.Skipped
	}

	verdict := theme.Success.Render(fmt.Sprintf("%s %d passed", theme.Icons.Pass, totals.Passed))
	if totals.Failed > 0 {
		verdict = theme.Error.Render(fmt.Sprintf("%s %d failed, %d passed", theme.Icons.Fail, totals.Failed, totals.Passed))
	}
	if totals.Skipped > 0 {
		verdict += theme.Muted.Render(fmt.Sprintf(", %d skipped", totals.Skipped))
	}
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, verdict)
}

func (f *TestFormatter) packageLine(pkg *PackageResult) string {
	icon := theme.Success.Render(theme.Icons.Pass)
	switch {
	case pkg.Failed > 0:
		icon = theme.Error.Render(theme.Icons.Fail)
	case pkg.Passed == 0 && pkg.Skipped == 0:
		icon = theme.Muted.Render(theme.Icons.Bullet)
	}

	line := fmt.Sprintf("%s %-36s %3d passed", icon, relName(pkg.Name), pkg.Passed)
	if pkg.Failed > 0 {
		line += fmt.Sprintf(", %d failed", pkg.Failed)
	}
	if pkg.Skipped > 0 {
		line += fmt.Sprintf(", %d skipped", pkg.Skipped)
	}
	if pkg.Duration > 0 {
		line += fmt.Sprintf("  %.1fs", pkg.Duration.Seconds())
	}
	if pkg.Coverage > 0 {
		line += fmt.Sprintf("  %.1f%%", pkg.Coverage)
	}
	return line
}

// relName strips the module path prefix off a package name.
func relName(name string) string {
	return strings.TrimPrefix(name, ModulePath+"/")
}

// topDir groups packages by their first path segment under the module root.
func topDir(name string) string {
	rel := relName(name)
	if i := strings.Index(rel, "/"); i >= 0 {
		return rel[:i]
	}
	return rel
}

// RunFormattedTests runs go test with the condensed formatter. Styling
// degrades to plain text on pipes through the shared theme.
func RunFormattedTests(args []string) error {
	return NewTestFormatter(os.Stdout).RunTests(args)
}
