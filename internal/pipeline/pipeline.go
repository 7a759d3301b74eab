// Package pipeline sequences detection, inventory, validation, repair and
// re-validation per platform, assembles the compliance report, and owns the
// final gate decision.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/appfactor/icongate/internal/detect"
	"github.com/appfactor/icongate/internal/inventory"
	"github.com/appfactor/icongate/internal/platform"
	"github.com/appfactor/icongate/internal/repair"
	"github.com/appfactor/icongate/internal/report"
	"github.com/appfactor/icongate/internal/validate"
)

// State tracks how far a platform got through the run.
type State int

const (
	NotDetected State = iota
	Detected
	Inventoried
	Validated
	Repaired
	Revalidated
)

func (s State) String() string {
	switch s {
	case NotDetected:
		return "not detected"
	case Detected:
		return "detected"
	case Inventoried:
		return "inventoried"
	case Validated:
		return "validated"
	case Repaired:
		return "repaired"
	case Revalidated:
		return "revalidated"
	default:
		return "unknown"
	}
}

// Update is one progress event published while a run executes. Consumers are
// the console logger and the live view; delivery is best-effort.
type Update struct {
	Target platform.Target
	State  State
	Ready  bool
	Note   string
}

// Options configures a run. The zero value is not usable; Root is required.
type Options struct {
	Root          string
	LogoPath      string
	ArtifactPath  string // empty = Root + report.DefaultArtifactPath
	DryRun        bool
	Emergency     bool
	CriticalSizes map[platform.Target][]int // emergency subset override, nil = built-in flags
	Sequential    bool
	Updates       chan<- Update // optional; closed by Run when finished
}

// PlatformOutcome is everything one platform produced during a run.
type PlatformOutcome struct {
	Target     platform.Target
	State      State
	Detected   bool
	Ready      bool
	Validation *validate.PlatformResult // final validation, post-repair when one ran
	Repair     *repair.Outcome          // nil when no repair pass ran
	Err        error                    // platform-scoped failure
}

// RunResult is the in-memory result of one pipeline run.
type RunResult struct {
	RunID        string
	Outcomes     []PlatformOutcome
	Gate         bool
	Report       *report.Report
	ArtifactPath string
	ArtifactErr  error // artifact write failure; never takes the gate down
}

// Run executes the pipeline. Detection failure is the only fatal error;
// everything platform-scoped lands in the outcomes, and a report artifact is
// written even when every platform fails. Detected platforms run
// concurrently; their working sets are disjoint by construction.
func Run(ctx context.Context, opts Options) (*RunResult, error) {
	if opts.Updates != nil {
		defer close(opts.Updates)
	}

	detected, err := detect.Platforms(opts.Root)
	if err != nil {
		return nil, err
	}
	present := make(map[platform.Target]bool, len(detected))
	for _, t := range detected {
		present[t] = true
	}

	all := platform.All()
	outcomes := make([]PlatformOutcome, len(all))

	var wg sync.WaitGroup
	for i, t := range all {
		if !present[t] {
			outcomes[i] = PlatformOutcome{Target: t, State: NotDetected}
			publish(opts.Updates, Update{Target: t, State: NotDetected, Note: "not present"})
			continue
		}
		if opts.Sequential {
			outcomes[i] = runPlatform(ctx, t, opts)
			continue
		}
		wg.Add(1)
		go func(idx int, target platform.Target) {
			defer wg.Done()
			outcomes[idx] = runPlatform(ctx, target, opts)
		}(i, t)
	}
	wg.Wait()

	gate := false
	for _, o := range outcomes {
		if o.Detected && o.Ready {
			gate = true
			break
		}
	}

	res := &RunResult{
		RunID:    uuid.NewString(),
		Outcomes: outcomes,
		Gate:     gate,
	}
	res.Report = buildReport(res.RunID, opts, outcomes, gate)

	res.ArtifactPath = opts.ArtifactPath
	if res.ArtifactPath == "" {
		res.ArtifactPath = filepath.Join(opts.Root, report.DefaultArtifactPath)
	}
	res.ArtifactErr = res.Report.WriteArtifact(res.ArtifactPath)

	return res, nil
}

// runPlatform walks one platform through the state machine. Exactly one
// repair attempt; context is honored between steps, never mid-write.
func runPlatform(ctx context.Context, t platform.Target, opts Options) PlatformOutcome {
	out := PlatformOutcome{Target: t, Detected: true, State: Detected}
	publish(opts.Updates, Update{Target: t, State: Detected})

	var reqs []platform.Requirement
	if opts.Emergency {
		reqs = platform.CriticalRequirements(t, opts.CriticalSizes[t])
	}

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	snap := inventory.Scan(t, opts.Root, reqs)
	out.State = Inventoried
	publish(opts.Updates, Update{Target: t, State: Inventoried, Note: fmt.Sprintf("%d required assets", len(snap.Assets))})

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	pr := validate.Run(snap)
	out.State = Validated
	out.Validation = pr
	if pr.Ready() {
		out.Ready = true
		publish(opts.Updates, Update{Target: t, State: Validated, Ready: true, Note: "compliant"})
		return out
	}
	publish(opts.Updates, Update{Target: t, State: Validated, Note: fmt.Sprintf("%d issues", issueCount(pr))})

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	ro, err := repair.Run(ctx, snap, pr, repair.Options{LogoPath: opts.LogoPath, DryRun: opts.DryRun})
	out.Repair = ro
	out.State = Repaired
	if err != nil {
		out.Err = err
		publish(opts.Updates, Update{Target: t, State: Repaired, Note: err.Error()})
		return out
	}
	publish(opts.Updates, Update{Target: t, State: Repaired, Note: repairNote(ro)})

	if opts.DryRun {
		// Nothing was written; the first validation stands.
		return out
	}

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	final := validate.Run(inventory.Scan(t, opts.Root, reqs))
	out.Validation = final
	out.State = Revalidated
	out.Ready = final.Ready()
	note := "compliant after repair"
	if !out.Ready {
		note = fmt.Sprintf("%d issues remain", issueCount(final))
	}
	publish(opts.Updates, Update{Target: t, State: Revalidated, Ready: out.Ready, Note: note})
	return out
}

func issueCount(pr *validate.PlatformResult) int {
	n := len(pr.Failures())
	if !pr.AssetManifest.OK {
		n++
	}
	if !pr.AppManifest.OK {
		n++
	}
	return n
}

func repairNote(ro *repair.Outcome) string {
	verb := "applied"
	if ro.DryRun {
		verb = "planned"
	}
	if ro.Source != nil {
		return fmt.Sprintf("%d fixes %s from %s", len(ro.Records), verb, ro.Source.Describe())
	}
	return fmt.Sprintf("%d fixes %s", len(ro.Records), verb)
}

func buildReport(runID string, opts Options, outcomes []PlatformOutcome, gate bool) *report.Report {
	mode := report.ModeFull
	if opts.Emergency {
		mode = report.ModeEmergency
	}
	rep := report.New(runID, opts.Root, mode, opts.DryRun)
	rep.GateSuccess = gate

	for _, o := range outcomes {
		pr := report.PlatformReport{
			Target:   o.Target,
			Detected: o.Detected,
			Ready:    o.Ready,
		}
		if o.Validation != nil {
			pr.Results = o.Validation.Results
			pr.AssetManifest = o.Validation.AssetManifest
			pr.AppManifest = o.Validation.AppManifest
		}
		if o.Repair != nil {
			pr.Repairs = o.Repair.Records
			pr.Warnings = o.Repair.Warnings
		}
		if o.Err != nil {
			pr.Failure = o.Err.Error()
		}
		rep.Platforms = append(rep.Platforms, pr)
	}
	return rep
}

// publish delivers an update without ever blocking the pipeline. A consumer
// that falls behind loses progress lines, not correctness.
func publish(ch chan<- Update, u Update) {
	if ch == nil {
		return
	}
	select {
	case ch <- u:
	default:
	}
}
