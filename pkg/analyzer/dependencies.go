package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
)

// Version floors for the target toolchain.
const (
	minReactVersion      = "v18"
	minTypeScriptVersion = "v4.5"
)

// DependencyAnalyzer classifies manifest packages against a profile.
type DependencyAnalyzer struct {
	profile *framework.Profile
}

// NewDependencyAnalyzer creates a classifier for the given profile.
func NewDependencyAnalyzer(profile *framework.Profile) *DependencyAnalyzer {
	return &DependencyAnalyzer{profile: profile}
}

// AnalyzeDependencies classifies the Next.js manifest. It never fails; a nil
// manifest or one without dependency fields yields a compatible empty result.
func AnalyzeDependencies(m *models.Manifest) models.DependencyAnalysis {
	return NewDependencyAnalyzer(framework.NextJS()).Analyze(m)
}

// Analyze classifies every declared package. Production entries come first,
// then development entries, each sorted by name.
func (d *DependencyAnalyzer) Analyze(m *models.Manifest) models.DependencyAnalysis {
	result := models.DependencyAnalysis{
		Dependencies:  []models.DependencyRecord{},
		Compatibility: models.Compatibility{Compatible: true, Issues: []string{}},
	}
	if m == nil || (len(m.Dependencies) == 0 && len(m.DevDependencies) == 0) {
		return result
	}

	var issues []string
	add := func(deps map[string]string, kind, format string) {
		for _, name := range sortedKeys(deps) {
			rec := models.DependencyRecord{
				Name:                name,
				Version:             cleanVersion(deps[name]),
				Type:                kind,
				IsFrameworkSpecific: d.profile.IsFrameworkPackage(name),
			}
			if rec.IsFrameworkSpecific {
				rec.RecommendedReplacement = d.profile.Replacement(name)
				issues = append(issues, fmt.Sprintf(format, name))
			}
			result.Dependencies = append(result.Dependencies, rec)
		}
	}
	add(m.Dependencies, models.DependencyProduction, `The dependency "%s" is Next.js specific and needs replacement`)
	add(m.DevDependencies, models.DependencyDevelopment, `The dev dependency "%s" is Next.js specific and needs replacement`)

	declared := make(map[string]bool, len(result.Dependencies))
	for _, rec := range result.Dependencies {
		declared[rec.Name] = true
	}

	if declared[d.profile.CorePackage()] {
		for _, peer := range d.profile.PeerPackages() {
			if !declared[peer] {
				issues = append(issues, "Missing React or React DOM dependencies which are required")
				break
			}
		}
	}

	if declared[d.profile.InternalRouterPackage()] {
		found := false
		for _, pkg := range d.profile.TargetRouterPackages() {
			if declared[pkg] {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, "Next.js router is used but no React Router dependency is found for replacement")
		}
	}

	if len(issues) > 0 {
		result.Compatibility = models.Compatibility{Compatible: false, Issues: issues}
	}
	return result
}

// CheckVersionCompatibility inspects react, typescript and next for version
// floors and mandatory removal. The result is advisory and independent of
// the manifest compatibility flag.
func CheckVersionCompatibility(deps []models.DependencyRecord) models.Compatibility {
	issues := []string{}

	if dep, ok := findDependency(deps, "react"); ok {
		if v, valid := semverOf(dep.Version); valid && semver.Compare(v, minReactVersion) < 0 {
			issues = append(issues, fmt.Sprintf("React version %s is less than the recommended version 18 for Vite projects", dep.Version))
		}
	}

	if dep, ok := findDependency(deps, "typescript"); ok {
		if v, valid := semverOf(dep.Version); valid && semver.Compare(v, minTypeScriptVersion) < 0 {
			issues = append(issues, fmt.Sprintf("TypeScript version %s is less than the recommended version 4.5 for Vite projects", dep.Version))
		}
	}

	if _, ok := findDependency(deps, "next"); ok {
		issues = append(issues, "Next.js package will need to be removed and replaced with Vite")
	}

	return models.Compatibility{Compatible: len(issues) == 0, Issues: issues}
}

func findDependency(deps []models.DependencyRecord, name string) (models.DependencyRecord, bool) {
	for _, d := range deps {
		if d.Name == name {
			return d, true
		}
	}
	return models.DependencyRecord{}, false
}

// cleanVersion removes every range marker (^ and ~).
func cleanVersion(v string) string {
	return strings.NewReplacer("^", "", "~", "").Replace(v)
}

// semverOf turns a manifest version into a comparable semver string.
// Ranges, tags and workspace references are not comparable.
func semverOf(v string) (string, bool) {
	v = strings.TrimSpace(v)
	v = strings.TrimLeft(v, "=>v ")
	if v == "" {
		return "", false
	}
	v = "v" + strings.TrimSuffix(strings.TrimSuffix(v, ".x"), ".x")
	return v, semver.IsValid(v)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
