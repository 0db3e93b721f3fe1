package analyzer

import (
	"fmt"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/transform"
)

// Validated pipeline entry points.
const (
	ProbeCodebase     = "codebaseAnalyzer"
	ProbeComponents   = "componentAnalyzer"
	ProbeRouting      = "routingAnalyzer"
	ProbeDependencies = "dependencyAnalyzer"
	ProbeReadiness    = "readinessScorer"
	ProbeTransformer  = "codeTransformer"
)

// Probe exercises one entry point with empty input. A nil Check means the
// entry point is not available.
type Probe struct {
	Name  string
	Check func() error
}

// Validator checks that every pipeline entry point is callable before a run.
type Validator struct {
	probes []Probe
}

// NewValidator creates a validator over the standard six entry points.
func NewValidator(profile *framework.Profile, engine *transform.Engine) *Validator {
	deps := NewDependencyAnalyzer(profile)
	return &Validator{probes: []Probe{
		{ProbeCodebase, func() error {
			ExtractFacts(nil, profile)
			return nil
		}},
		{ProbeComponents, func() error {
			AnalyzeComponents(nil, profile)
			return nil
		}},
		{ProbeRouting, func() error {
			BuildRoutes(nil, profile)
			return nil
		}},
		{ProbeDependencies, func() error {
			deps.Analyze(nil)
			return nil
		}},
		{ProbeReadiness, func() error {
			CalculateReadiness(ReadinessInput{})
			return nil
		}},
		{ProbeTransformer, func() error {
			if engine == nil {
				return fmt.Errorf("transform engine is not configured")
			}
			engine.Transform("")
			return nil
		}},
	}}
}

// NewValidatorWithProbes creates a validator over custom probes.
func NewValidatorWithProbes(probes ...Probe) *Validator {
	return &Validator{probes: probes}
}

// Validate runs every probe. Components start as ok; a missing entry point,
// a returned error or a panic marks the component as error and adds one
// issue.
func (v *Validator) Validate() models.ValidationResult {
	result := models.ValidationResult{
		Issues:     []string{},
		Components: make([]models.ComponentStatus, 0, len(v.probes)),
	}

	for _, p := range v.probes {
		status := models.ComponentStatus{Name: p.Name, Status: models.StatusOK}
		if err := runProbe(p); err != nil {
			status.Status = models.StatusError
			status.Message = err.Error()
			result.Issues = append(result.Issues, fmt.Sprintf("%s validation error: %s", p.Name, status.Message))
		}
		result.Components = append(result.Components, status)
	}

	result.Valid = len(result.Issues) == 0
	return result
}

func runProbe(p Probe) (err error) {
	if p.Check == nil {
		return fmt.Errorf("%s function is not available", p.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Check()
}
