package transform

import (
	"fmt"
	"sort"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

// Engine applies a fixed rule list to source text. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the default rule table.
func NewEngine() *Engine {
	return &Engine{rules: Rules()}
}

// NewEngineWithRules creates an engine over a custom rule list.
func NewEngineWithRules(rules []Rule) *Engine {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return &Engine{rules: out}
}

// Rules returns a copy of the engine's rules.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Transform applies every rule once, in order, to the running text. Only
// rules that matched are recorded.
func (e *Engine) Transform(code string) models.TransformResult {
	result := models.TransformResult{
		AppliedTransformations: []string{},
		Changes:                []string{},
		Warnings:               []string{},
	}

	if n := len(reLoaderExport.FindAllStringIndex(code, -1)); n > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d data-fetching exports were renamed to loader; merge them into a single loader", n))
	}

	seenWarning := make(map[string]bool)
	current := code
	for _, rule := range e.rules {
		next, n := rule.apply(current)
		if n == 0 {
			continue
		}
		current = next
		result.AppliedTransformations = append(result.AppliedTransformations, rule.Description)
		result.Changes = append(result.Changes, fmt.Sprintf("Applied %s (%d occurrences)", rule.Description, n))
		if rule.Warning != "" && !seenWarning[rule.Warning] {
			seenWarning[rule.Warning] = true
			result.Warnings = append(result.Warnings, rule.Warning)
		}
	}

	result.Warnings = append(result.Warnings, residualImports(current)...)
	result.Warnings = append(result.Warnings, residualIdentifiers(current)...)
	result.TransformedCode = current
	return result
}

// TransformFile transforms one file and tags the result with its path.
func (e *Engine) TransformFile(path, code string) models.TransformResult {
	result := e.Transform(code)
	result.Path = path
	return result
}

// residualImports warns about framework imports no rule converted.
func residualImports(code string) []string {
	seen := make(map[string]bool)
	var modules []string
	for _, m := range reResidualImport.FindAllStringSubmatch(code, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			modules = append(modules, m[1])
		}
	}
	sort.Strings(modules)

	warnings := make([]string, 0, len(modules))
	for _, mod := range modules {
		warnings = append(warnings, fmt.Sprintf("Unconverted import from %q needs manual migration", mod))
	}
	return warnings
}

// residualIdentifiers warns about framework hooks and types that are still
// referenced after their import was rewritten.
func residualIdentifiers(code string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range reResidualIdent.FindAllStringSubmatch(code, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	warnings := make([]string, 0, len(names))
	for _, name := range names {
		warnings = append(warnings, fmt.Sprintf("Unconverted reference to %s needs manual migration", name))
	}
	return warnings
}
