package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rg0now/next-migration-survey/pkg/analyzer"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/transform"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	categoryStyles = map[string]lipgloss.Style{
		models.CategorySimple:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		models.CategoryModerate: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		models.CategoryComplex:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

func title(w io.Writer, text string) {
	fmt.Fprintf(w, "%s\n\n", titleStyle.Render("=== "+text+" ==="))
}

func heading(w io.Writer, text string) {
	fmt.Fprintf(w, "%s\n", headingStyle.Render(text))
}

func bullets(w io.Writer, items []string, style lipgloss.Style) {
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", style.Render(item))
	}
}

// PrintSummary prints a hotspot summary to the given writer.
func PrintSummary(w io.Writer, summary Summary) {
	title(w, "Hotspot Summary")
	fmt.Fprintf(w, "Files With Signals: %d\n", summary.TotalFiles)
	fmt.Fprintf(w, "Average Score: %.2f\n\n", summary.AverageScore)

	heading(w, "Classification Distribution:")
	for _, class := range classOrder {
		count, ok := summary.ByClassification[class]
		if !ok {
			continue
		}
		pct := 100.0 * float64(count) / float64(summary.TotalFiles)
		fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", class, count, pct)
	}
	fmt.Fprintf(w, "\n")

	heading(w, "Top Signal Types:")
	type sigFreq struct {
		Type  string
		Count int
	}
	var freqs []sigFreq
	for sigType, count := range summary.SignalFrequency {
		freqs = append(freqs, sigFreq{sigType, count})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Type < freqs[j].Type
	})
	for i := 0; i < len(freqs) && i < 10; i++ {
		fmt.Fprintf(w, "  %s: %d\n", freqs[i].Type, freqs[i].Count)
	}
	fmt.Fprintf(w, "\n")

	if len(summary.Top) > 0 {
		heading(w, "Top Hotspots:")
		for i, r := range summary.Top {
			fmt.Fprintf(w, "  %d. %s (score: %d, %s)\n", i+1, r.Path, r.Score, r.Classification)
		}
		fmt.Fprintf(w, "\n")
	}
}

// PrintAnalysis renders a run result for the terminal.
func PrintAnalysis(w io.Writer, a *models.SystemAnalysis) {
	title(w, "Migration Readiness")

	style, ok := categoryStyles[a.Readiness.Category]
	if !ok {
		style = headingStyle
	}
	fmt.Fprintf(w, "Score: %d/100  Category: %s  Automation: %d%%\n\n",
		a.Readiness.Score, style.Render(a.Readiness.Category), a.Readiness.AutomationPercentage)

	c := a.Codebase
	heading(w, "Codebase:")
	fmt.Fprintf(w, "  files: %d (script %d, typed %d, style %d, skipped %d)\n",
		c.TotalFiles, c.ScriptFiles, c.TypedFiles, c.StyleFiles, c.SkippedFiles)
	fmt.Fprintf(w, "  components: %d  hooks: %d  api routes: %d\n", c.ComponentCount, c.HookCount, c.APIRouteCount)
	features := make([]string, 0, len(c.FeatureUsage))
	for name, n := range c.FeatureUsage {
		if n > 0 {
			features = append(features, fmt.Sprintf("%s=%d", name, n))
		}
	}
	sort.Strings(features)
	if len(features) > 0 {
		fmt.Fprintf(w, "  features: %s\n", strings.Join(features, " "))
	}
	fmt.Fprintf(w, "\n")

	comp := a.Components
	heading(w, "Components:")
	fmt.Fprintf(w, "  total: %d  framework specific: %d  portable: %d\n",
		comp.TotalComponents, comp.FrameworkSpecificComponents, comp.PortableComponents)
	fmt.Fprintf(w, "  with data fetching: %d  with routing: %d\n\n",
		comp.ComponentsWithDataFetching, comp.ComponentsWithRouting)

	heading(w, "Routing:")
	fmt.Fprintf(w, "  routes: %d  dynamic: %d  complex: %d\n\n",
		len(a.Routing.Routes), a.Routing.DynamicRoutes, a.Routing.ComplexRoutes)

	heading(w, "Dependencies:")
	framework := 0
	for _, d := range a.Dependencies.Dependencies {
		if d.IsFrameworkSpecific {
			framework++
		}
	}
	fmt.Fprintf(w, "  declared: %d  framework specific: %d\n", len(a.Dependencies.Dependencies), framework)
	bullets(w, a.Dependencies.Compatibility.Issues, warnStyle)
	if a.VersionAdvisory != nil {
		bullets(w, a.VersionAdvisory.Issues, mutedStyle)
	}
	fmt.Fprintf(w, "\n")

	if a.Middleware != nil && len(a.Middleware.Middlewares) > 0 {
		heading(w, "Middleware:")
		for _, m := range a.Middleware.Middlewares {
			label := "simple"
			if m.IsComplex {
				label = warnStyle.Render("complex")
			}
			fmt.Fprintf(w, "  %s (%s)\n", m.Name, label)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(a.Readiness.ManualInterventionAreas) > 0 {
		heading(w, "Manual Intervention:")
		bullets(w, a.Readiness.ManualInterventionAreas, warnStyle)
		fmt.Fprintf(w, "\n")
	}

	if len(a.Readiness.Recommendations) > 0 {
		heading(w, "Recommendations:")
		bullets(w, a.Readiness.Recommendations, lipgloss.NewStyle())
		fmt.Fprintf(w, "\n")
	}

	if !a.Validation.Valid {
		heading(w, "Validation Issues:")
		bullets(w, a.Validation.Issues, errorStyle)
		fmt.Fprintf(w, "\n")
	}

	if len(a.Hotspots) > 0 {
		PrintSummary(w, GenerateSummary(a.Hotspots, 10))
	}
}

// PrintTransform lists what the engine did to one file.
func PrintTransform(w io.Writer, r models.TransformResult) {
	name := r.Path
	if name == "" {
		name = "<input>"
	}
	if len(r.Changes) == 0 {
		fmt.Fprintf(w, "%s %s\n", headingStyle.Render(name), mutedStyle.Render("(no changes)"))
	} else {
		heading(w, name)
		bullets(w, r.Changes, lipgloss.NewStyle())
	}
	bullets(w, r.Warnings, warnStyle)
}

// PrintRoutes prints the route table with the React Router path of each
// route.
func PrintRoutes(w io.Writer, routes []models.RouteRecord) {
	if len(routes) == 0 {
		fmt.Fprintf(w, "%s\n", mutedStyle.Render("no routes found"))
		return
	}

	pathW, targetW := len("ROUTE"), len("REACT ROUTER")
	for _, r := range routes {
		pathW = max(pathW, len(r.Path))
		targetW = max(targetW, len(r.ReactRouterPath))
	}
	pathCol := lipgloss.NewStyle().Width(pathW + 2)
	targetCol := lipgloss.NewStyle().Width(targetW + 2)
	levelCol := lipgloss.NewStyle().Width(len("moderate") + 2)

	fmt.Fprintf(w, "%s%s%s%s\n",
		headingStyle.Inherit(pathCol).Render("ROUTE"),
		headingStyle.Inherit(targetCol).Render("REACT ROUTER"),
		headingStyle.Inherit(levelCol).Render("LEVEL"),
		headingStyle.Render("SOURCE"))
	for _, r := range routes {
		fmt.Fprintf(w, "%s%s%s%s\n",
			pathCol.Render(r.Path),
			targetCol.Render(r.ReactRouterPath),
			levelCol.Render(analyzer.ComplexityLabel(r.Complexity)),
			r.ComponentRef)
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  %s\n", warnStyle.Render("! "+warning))
		}
	}
}

// PrintRules prints the transform rule table.
func PrintRules(w io.Writer, rules []transform.RuleInfo) {
	catCol := lipgloss.NewStyle().Width(len("data-fetching") + 2)
	levelCol := lipgloss.NewStyle().Width(len("complex") + 2)
	for _, r := range rules {
		fmt.Fprintf(w, "%s%s%s\n",
			catCol.Render(r.Category),
			levelCol.Render(r.Complexity),
			r.Description)
	}
	fmt.Fprintf(w, "\n%s\n", mutedStyle.Render(fmt.Sprintf("%d rules", len(rules))))
}

// PrintCoverage prints which rules fired across a batch of files.
func PrintCoverage(w io.Writer, report transform.CoverageReport) {
	title(w, "Transform Coverage")
	fmt.Fprintf(w, "Files: %d  Changed: %d\n\n", report.Files, report.Changed)

	if len(report.Rules) > 0 {
		heading(w, "Fired Rules:")
		for _, r := range report.Rules {
			fmt.Fprintf(w, "  %s [%s]: %d file(s)\n", r.Description, r.Category, len(r.Files))
		}
		fmt.Fprintf(w, "\n")
	}
	if len(report.NeverFired) > 0 {
		heading(w, "Never Fired:")
		bullets(w, report.NeverFired, mutedStyle)
	}
}

// PrintValidation prints the probe status of each pipeline entry point.
func PrintValidation(w io.Writer, v models.ValidationResult) {
	for _, c := range v.Components {
		status := c.Status
		switch c.Status {
		case models.StatusOK:
			status = categoryStyles[models.CategorySimple].Render(status)
		case models.StatusWarning:
			status = warnStyle.Render(status)
		default:
			status = errorStyle.Render(status)
		}
		fmt.Fprintf(w, "%-20s %s", c.Name, status)
		if c.Message != "" {
			fmt.Fprintf(w, "  %s", mutedStyle.Render(c.Message))
		}
		fmt.Fprintf(w, "\n")
	}
}
