package transform

import (
	"sort"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

// RuleCoverage lists the files one rule fired in.
type RuleCoverage struct {
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Files       []string `json:"files" yaml:"files"`
}

// CoverageReport summarizes rule activity over many files.
type CoverageReport struct {
	Files      int            `json:"files" yaml:"files"`
	Changed    int            `json:"changed" yaml:"changed"`
	Rules      []RuleCoverage `json:"rules" yaml:"rules"`
	NeverFired []string       `json:"neverFired" yaml:"neverFired"`
}

// Coverage accumulates transform results. It is not safe for concurrent
// use.
type Coverage struct {
	rules   []Rule
	files   int
	changed int
	fired   map[string][]string
}

// NewCoverage tracks the given rules, usually Engine.Rules().
func NewCoverage(rules []Rule) *Coverage {
	return &Coverage{
		rules: rules,
		fired: make(map[string][]string),
	}
}

// Record adds one file's result.
func (c *Coverage) Record(path string, result models.TransformResult) {
	c.files++
	if len(result.AppliedTransformations) > 0 {
		c.changed++
	}
	for _, desc := range result.AppliedTransformations {
		c.fired[desc] = append(c.fired[desc], path)
	}
}

// Report returns fired rules in table order, each with its sorted files,
// followed by the rules that never fired.
func (c *Coverage) Report() CoverageReport {
	report := CoverageReport{
		Files:      c.files,
		Changed:    c.changed,
		Rules:      []RuleCoverage{},
		NeverFired: []string{},
	}
	for _, r := range c.rules {
		files, ok := c.fired[r.Description]
		if !ok {
			report.NeverFired = append(report.NeverFired, r.Description)
			continue
		}
		sorted := append([]string(nil), files...)
		sort.Strings(sorted)
		report.Rules = append(report.Rules, RuleCoverage{
			Description: r.Description,
			Category:    r.Category,
			Files:       sorted,
		})
	}
	return report
}
