// Package report builds the durable compliance artifact the build driver
// consumes, plus typed renderings of the same result for humans and machines.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/appfactor/icongate/internal/platform"
	"github.com/appfactor/icongate/internal/repair"
	"github.com/appfactor/icongate/internal/validate"
)

// DefaultArtifactPath is where the artifact lands unless --out overrides it,
// relative to the project root.
const DefaultArtifactPath = "build/icon-compliance-report.txt"

// Run modes named in the artifact header.
const (
	ModeFull      = "full"
	ModeEmergency = "emergency"
)

// MarkerRe matches gate marker lines.
var MarkerRe = regexp.MustCompile(`^(App|Play) Store Compliance: (READY|NOT READY)$`)

// MarkerLine renders the gate marker for one store. These exact substrings
// are a compatibility surface consumed by build drivers; never reword them.
func MarkerLine(t platform.Target, ready bool) string {
	status := "NOT READY"
	if ready {
		status = "READY"
	}
	return fmt.Sprintf("%s Compliance: %s", t.StoreName(), status)
}

// PlatformReport is one platform's section of the report.
type PlatformReport struct {
	Target        platform.Target
	Detected      bool
	Ready         bool
	Results       []validate.Result
	AssetManifest validate.Check
	AppManifest   validate.Check
	Repairs       []repair.Record
	Warnings      []string
	Failure       string // platform-scoped error, empty when none
}

// PassCount returns how many requirement results passed.
func (p *PlatformReport) PassCount() int {
	n := 0
	for _, r := range p.Results {
		if r.Verdict == validate.Pass {
			n++
		}
	}
	return n
}

// Report is the full result of one pipeline run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Root        string
	Mode        string
	DryRun      bool
	GateSuccess bool
	Platforms   []PlatformReport
}

// New starts a report shell for one run. Platforms and the gate verdict are
// filled in by the orchestrator as the run progresses.
func New(runID, root, mode string, dryRun bool) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Root:        root,
		Mode:        mode,
		DryRun:      dryRun,
	}
}

// WriteArtifact overwrites the artifact at path with the text rendering,
// always wholesale.
func (r *Report) WriteArtifact(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	body := NewText().Render(r)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// Gate is one parsed marker line.
type Gate struct {
	Store string `json:"store"` // "App Store" or "Play Store"
	Ready bool   `json:"ready"`
}

// ParseArtifact reads the gate markers back out of an artifact body, for the
// report subcommand and for driver-side tooling.
func ParseArtifact(data []byte) ([]Gate, error) {
	var gates []Gate
	for _, line := range strings.Split(string(data), "\n") {
		if m := MarkerRe.FindStringSubmatch(line); m != nil {
			gates = append(gates, Gate{
				Store: m[1] + " Store",
				Ready: m[2] == "READY",
			})
		}
	}
	if len(gates) == 0 {
		return nil, fmt.Errorf("no compliance markers found in report input")
	}
	return gates, nil
}
