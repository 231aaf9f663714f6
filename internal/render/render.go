// Package render writes analysis reports as JSON, Markdown, or a terminal
// summary.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ebarkova/lede/internal/model"
)

// Renderer writes reports to files or streams
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. The footer credits the tool in Markdown
// output and can be disabled.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON. Path "-" writes to stdout.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	if path == "-" {
		return r.WriteJSON(os.Stdout, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JSON report: %w", err)
	}
	defer func() { _ = f.Close() }()

	return r.WriteJSON(f, report)
}

// WriteJSON writes the report as indented JSON to w.
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create Markdown report: %w", err)
	}
	defer func() { _ = f.Close() }()

	return r.WriteMarkdown(f, report)
}

// WriteMarkdown writes the report as a Markdown document to w.
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	b.WriteString("# Claim Evaluation Report\n\n")
	if report.ArticlePath != "" {
		fmt.Fprintf(&b, "**Article:** %s\n\n", report.ArticlePath)
	}
	if report.NotebookPath != "" {
		fmt.Fprintf(&b, "**Notebook:** %s\n\n", report.NotebookPath)
	}
	fmt.Fprintf(&b, "**Analyzed:** %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "**Claims:** %d detected, %d evaluated\n\n", len(report.Claims), len(report.Diagrams))

	diagrams := diagramsByClaim(report)
	for i, claim := range report.Claims {
		fmt.Fprintf(&b, "## Claim %d: %s\n\n", i+1, claim.Text)
		fmt.Fprintf(&b, "- **Type:** %s\n", claim.Type)
		fmt.Fprintf(&b, "- **Status:** %s\n", claim.Status)

		d, ok := diagrams[claim.ID]
		if !ok {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "- **Strength:** %s (%.0f/100)\n", d.Strength, d.OverallScore)
		fmt.Fprintf(&b, "- **Verdict:** %s\n", d.Action)
		if d.ActionReasoning != "" {
			fmt.Fprintf(&b, "- **Reasoning:** %s\n", d.ActionReasoning)
		}
		b.WriteString("\n")

		if len(d.Grounds) > 0 {
			b.WriteString("### Grounds\n\n")
			for _, g := range d.Grounds {
				fmt.Fprintf(&b, "- %s (relevance %.2f)\n", g.Content, g.RelevanceScore)
			}
			b.WriteString("\n")
		}
		if d.Warrant.Statement != "" {
			b.WriteString("### Warrant\n\n")
			fmt.Fprintf(&b, "%s (%s, confidence %.2f)\n\n", d.Warrant.Statement, d.Warrant.Type, d.Warrant.Confidence)
		}
		if len(d.Issues) > 0 {
			b.WriteString("### Issues\n\n")
			for _, issue := range d.Issues {
				fmt.Fprintf(&b, "- **[%s]** %s\n", issue.Severity, issue.Description)
			}
			b.WriteString("\n")
		}
		if len(d.Gaps) > 0 {
			b.WriteString("### Evidence Gaps\n\n")
			for _, gap := range d.Gaps {
				fmt.Fprintf(&b, "- **[%s]** %s", gap.Importance, gap.Description)
				if gap.SuggestedQuery != "" {
					fmt.Fprintf(&b, " (try: %s)", gap.SuggestedQuery)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if len(report.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range report.Suggestions {
			fmt.Fprintf(&b, "- **[%s, priority %d]** %s\n", s.Severity, s.Priority, s.Message)
		}
		b.WriteString("\n")
	}

	if len(report.Failures) > 0 {
		b.WriteString("## Failures\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "- claim %s: %s\n", f.ClaimID, f.Error)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("Generated by [lede](https://github.com/ebarkova/lede). ")
		b.WriteString("Lede compares prose to analysis; it does not determine truth.\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteSummary writes a short terminal summary of the report to w.
func (r *Renderer) WriteSummary(w io.Writer, report *model.Report) error {
	var b strings.Builder

	diagrams := diagramsByClaim(report)
	for i, claim := range report.Claims {
		fmt.Fprintf(&b, "%d. %q\n", i+1, claim.Text)
		d, ok := diagrams[claim.ID]
		if !ok {
			fmt.Fprintf(&b, "   not evaluated\n")
			continue
		}
		fmt.Fprintf(&b, "   %s (%.0f/100), %s\n", d.Strength, d.OverallScore, d.Action)
		for _, issue := range d.Issues {
			fmt.Fprintf(&b, "   ! %s: %s\n", issue.Severity, issue.Description)
		}
	}
	fmt.Fprintf(&b, "\n%d claims, %d suggestions, %d failures\n",
		len(report.Claims), len(report.Suggestions), len(report.Failures))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func diagramsByClaim(report *model.Report) map[string]model.ToulminDiagram {
	m := make(map[string]model.ToulminDiagram, len(report.Diagrams))
	for _, d := range report.Diagrams {
		m[d.ClaimID] = d
	}
	return m
}
