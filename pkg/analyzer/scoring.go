package analyzer

import (
	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
)

// ReadinessInput holds the aggregates the readiness score is computed from.
type ReadinessInput struct {
	Codebase     models.CodebaseFacts
	Components   models.ComponentFacts
	Dependencies models.DependencyAnalysis
	Routing      models.RoutingAnalysis
}

// penalty is one weighted readiness deduction.
type penalty struct {
	points         int
	area           string
	recommendation string
}

const incrementalMigration = "Consider incremental migration instead of one-time conversion"

// CalculateReadiness scores how much of the migration can be automated.
// Penalties are checked in a fixed order and each fires at most one tier.
func CalculateReadiness(in ReadinessInput) models.ReadinessResult {
	var hits []penalty

	ratio := float64(in.Components.FrameworkSpecificComponents) / float64(max(in.Components.TotalComponents, 1)) * 100
	switch {
	case ratio > 75:
		hits = append(hits, penalty{25, "Next.js-specific components",
			"Consider replacing Next.js components with React alternatives like react-helmet, unpic/react, etc."})
	case ratio > 40:
		hits = append(hits, penalty{15, "Next.js-specific components",
			"Several Next.js components need to be replaced with React alternatives"})
	}

	switch {
	case in.Routing.ComplexRoutes > 10:
		hits = append(hits, penalty{25, "Complex dynamic routes",
			"Complex dynamic routes will require careful handling with React Router"})
	case in.Routing.DynamicRoutes > 5:
		hits = append(hits, penalty{10, "Dynamic routes",
			"Dynamic routes will need to be transformed to React Router format"})
	}

	frameworkDeps := 0
	for _, d := range in.Dependencies.Dependencies {
		if d.IsFrameworkSpecific {
			frameworkDeps++
		}
	}
	switch {
	case !in.Dependencies.Compatibility.Compatible:
		hits = append(hits, penalty{20, "Incompatible dependencies",
			"Several dependencies are not compatible with Vite and need alternatives"})
	case frameworkDeps > 3:
		hits = append(hits, penalty{10, "Next.js-specific dependencies",
			"Replace Next.js-specific dependencies with React/Vite alternatives"})
	}

	usage := in.Codebase.FeatureUsage
	if usage[framework.FeatureServerSideProps] > 0 || usage[framework.FeatureStaticProps] > 0 {
		hits = append(hits, penalty{15, "Next.js data fetching",
			"Replace Next.js data fetching methods with React Query or SWR"})
	}

	raw := 100
	result := models.ReadinessResult{
		ManualInterventionAreas: []string{},
		Recommendations:         []string{},
	}
	for _, h := range hits {
		raw -= h.points
		result.ManualInterventionAreas = append(result.ManualInterventionAreas, h.area)
		result.Recommendations = append(result.Recommendations, h.recommendation)
	}

	result.Category = Categorize(raw)
	if result.Category == models.CategoryComplex {
		result.Recommendations = append(result.Recommendations, incrementalMigration)
	}
	result.Score = clamp(raw, 0, 100)
	result.AutomationPercentage = result.Score

	return result
}

// Categorize maps a raw readiness score onto a category.
func Categorize(score int) string {
	switch {
	case score < models.ThresholdComplex:
		return models.CategoryComplex
	case score < models.ThresholdModerate:
		return models.CategoryModerate
	default:
		return models.CategorySimple
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
