package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/appfactor/icongate/internal/validate"
)

// Text renders the plain artifact body: what lands in the report file and
// what CI logs show. Styling belongs to the console, not to the artifact.
type Text struct{}

// NewText creates a text renderer.
func NewText() *Text {
	return &Text{}
}

// Render formats the whole report. The output always ends with a newline and
// contains one gate marker line per detected platform.
func (t *Text) Render(r *Report) string {
	var sb strings.Builder
	caser := cases.Title(language.English)

	title := "Icon Compliance Report"
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", runewidth.StringWidth(title)) + "\n")
	fmt.Fprintf(&sb, "Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Run ID:    %s\n", r.RunID)
	fmt.Fprintf(&sb, "Root:      %s\n", r.Root)
	fmt.Fprintf(&sb, "Mode:      %s\n", modeLabel(r.Mode))
	if r.DryRun {
		sb.WriteString("Dry run:   no files were written\n")
	}

	for i := range r.Platforms {
		sb.WriteString("\n")
		t.renderPlatform(&sb, r, &r.Platforms[i], caser)
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Gate: %s\n", gateLabel(r))
	return sb.String()
}

func (t *Text) renderPlatform(sb *strings.Builder, r *Report, p *PlatformReport, caser cases.Caser) {
	name := p.Target.DisplayName()
	sb.WriteString(name + "\n")
	sb.WriteString(strings.Repeat("-", runewidth.StringWidth(name)) + "\n")

	if !p.Detected {
		sb.WriteString("not present in this project; skipped\n")
		return
	}

	fmt.Fprintf(sb, "Icons: %d/%d pass\n", p.PassCount(), len(p.Results))

	nameW, roleW, sizeW := columnWidths(p.Results, caser)
	for _, res := range p.Results {
		line := "  " +
			padRight(res.Requirement.Name, nameW) + "  " +
			padRight(caser.String(res.Requirement.Role), roleW) + "  " +
			padRight(res.Requirement.SizeLabel(), sizeW) + "  " +
			res.Verdict.String()
		if res.Detail != "" {
			line += " (" + res.Detail + ")"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("Manifests:\n")
	renderCheck(sb, p.AssetManifest)
	renderCheck(sb, p.AppManifest)

	if len(p.Repairs) > 0 {
		if r.DryRun {
			sb.WriteString("Repairs planned:\n")
		} else {
			sb.WriteString("Repairs applied:\n")
		}
		for _, rec := range p.Repairs {
			path := rec.Path
			if rel, err := filepath.Rel(r.Root, rec.Path); err == nil {
				path = rel
			}
			if rec.Source != "" {
				fmt.Fprintf(sb, "  %s: %s (from %s)\n", rec.Action, path, rec.Source)
			} else {
				fmt.Fprintf(sb, "  %s: %s\n", rec.Action, path)
			}
		}
	}

	if len(p.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range p.Warnings {
			fmt.Fprintf(sb, "  - %s\n", w)
		}
	}
	if p.Failure != "" {
		fmt.Fprintf(sb, "Error: %s\n", p.Failure)
	}

	sb.WriteString(MarkerLine(p.Target, p.Ready) + "\n")
}

func renderCheck(sb *strings.Builder, c validate.Check) {
	if c.OK {
		fmt.Fprintf(sb, "  ok    %s\n", c.Name)
		return
	}
	fmt.Fprintf(sb, "  FAIL  %s (%s)\n", c.Name, c.Detail)
}

func columnWidths(results []validate.Result, caser cases.Caser) (nameW, roleW, sizeW int) {
	for _, res := range results {
		if w := runewidth.StringWidth(res.Requirement.Name); w > nameW {
			nameW = w
		}
		if w := runewidth.StringWidth(caser.String(res.Requirement.Role)); w > roleW {
			roleW = w
		}
		if w := runewidth.StringWidth(res.Requirement.SizeLabel()); w > sizeW {
			sizeW = w
		}
	}
	return nameW, roleW, sizeW
}

func modeLabel(mode string) string {
	if mode == ModeEmergency {
		return "emergency (critical sizes only)"
	}
	return mode
}

func gateLabel(r *Report) string {
	detected := 0
	ready := 0
	for _, p := range r.Platforms {
		if p.Detected {
			detected++
			if p.Ready {
				ready++
			}
		}
	}
	verdict := "FAIL"
	if r.GateSuccess {
		verdict = "PASS"
	}
	return fmt.Sprintf("%s (%d of %d detected platforms ready)", verdict, ready, detected)
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
