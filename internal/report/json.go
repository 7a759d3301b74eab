package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSON renders the report as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonReport is the top-level JSON structure.
type jsonReport struct {
	Version     string         `json:"version"`
	RunID       string         `json:"run_id"`
	GeneratedAt string         `json:"generated_at"`
	Root        string         `json:"root"`
	Mode        string         `json:"mode"`
	DryRun      bool           `json:"dry_run"`
	GateSuccess bool           `json:"gate_success"`
	Platforms   []jsonPlatform `json:"platforms"`
}

type jsonPlatform struct {
	Platform  string       `json:"platform"`
	Store     string       `json:"store"`
	Detected  bool         `json:"detected"`
	Ready     bool         `json:"ready"`
	Marker    string       `json:"marker,omitempty"`
	Icons     []jsonIcon   `json:"icons,omitempty"`
	Manifests []jsonCheck  `json:"manifests,omitempty"`
	Repairs   []jsonRepair `json:"repairs,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
	Failure   string       `json:"failure,omitempty"`
}

type jsonIcon struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	File    string `json:"file"`
	Want    string `json:"want"`
	Found   string `json:"found,omitempty"`
	Verdict string `json:"verdict"`
	Detail  string `json:"detail,omitempty"`
}

type jsonCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

type jsonRepair struct {
	Action string `json:"action"`
	Path   string `json:"path"`
	Source string `json:"source,omitempty"`
}

// Render formats the report as JSON.
func (j *JSON) Render(r *Report) string {
	out := jsonReport{
		Version:     "1.0",
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
		Root:        r.Root,
		Mode:        r.Mode,
		DryRun:      r.DryRun,
		GateSuccess: r.GateSuccess,
		Platforms:   make([]jsonPlatform, 0, len(r.Platforms)),
	}

	for i := range r.Platforms {
		out.Platforms = append(out.Platforms, jsonPlatformFrom(&r.Platforms[i]))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}

func jsonPlatformFrom(p *PlatformReport) jsonPlatform {
	jp := jsonPlatform{
		Platform: p.Target.String(),
		Store:    p.Target.StoreName(),
		Detected: p.Detected,
		Ready:    p.Ready,
		Warnings: p.Warnings,
		Failure:  p.Failure,
	}
	if !p.Detected {
		return jp
	}
	jp.Marker = MarkerLine(p.Target, p.Ready)

	for _, res := range p.Results {
		icon := jsonIcon{
			Name:    res.Requirement.Name,
			Role:    res.Requirement.Role,
			File:    res.Requirement.File,
			Want:    res.Requirement.SizeLabel(),
			Verdict: res.Verdict.String(),
			Detail:  res.Detail,
		}
		if res.Width > 0 || res.Height > 0 {
			icon.Found = jsonSize(res.Width, res.Height)
		}
		jp.Icons = append(jp.Icons, icon)
	}

	jp.Manifests = []jsonCheck{
		{Name: p.AssetManifest.Name, OK: p.AssetManifest.OK, Detail: p.AssetManifest.Detail},
		{Name: p.AppManifest.Name, OK: p.AppManifest.OK, Detail: p.AppManifest.Detail},
	}
	for _, rec := range p.Repairs {
		jp.Repairs = append(jp.Repairs, jsonRepair{Action: rec.Action, Path: rec.Path, Source: rec.Source})
	}
	return jp
}

func jsonSize(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}
