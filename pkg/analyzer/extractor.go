package analyzer

import (
	"path"
	"regexp"
	"strings"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
)

// File buckets by extension.
const (
	bucketNone = iota
	bucketScript
	bucketTyped
	bucketStyle
)

func bucketOf(ext string) int {
	switch strings.ToLower(ext) {
	case ".js", ".jsx":
		return bucketScript
	case ".ts", ".tsx":
		return bucketTyped
	case ".css", ".scss":
		return bucketStyle
	default:
		return bucketNone
	}
}

func isCode(ext string) bool {
	b := bucketOf(ext)
	return b == bucketScript || b == bucketTyped
}

// IsCodeFile reports whether the path names a script or typed source file.
func IsCodeFile(p string) bool {
	return isCode(path.Ext(p))
}

// isMarkup reports whether ext can hold JSX and is worth parsing for
// components.
func isMarkup(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jsx", ".tsx":
		return true
	}
	return false
}

// isAPIPath reports whether a path lies under an api directory.
func isAPIPath(p string) bool {
	return strings.Contains(p, "/api/") || strings.Contains(p, `\api\`) || strings.HasPrefix(p, "api/")
}

var (
	// function Home(   |   export default function Home(
	reFuncComponent = regexp.MustCompile(`(?m)^[\t ]*(?:export[\t ]+(?:default[\t ]+)?)?(?:async[\t ]+)?function[\t ]+([A-Z][A-Za-z0-9_$]*)\s*[(<]`)

	// const Card = (props) =>   |   const Card: React.FC<P> = ({ a }) =>   |   const Card = memo((p) =>
	reArrowComponent = regexp.MustCompile(`(?m)^[\t ]*(?:export[\t ]+)?(?:const|let)[\t ]+([A-Z][A-Za-z0-9_$]*)\s*(?::[^=\n]+)?=\s*(?:React\.)?(?:memo|forwardRef)?\(?\s*(?:async\s*)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*(?::[^=\n]+)?=>`)

	// class Page extends React.Component
	reClassComponent = regexp.MustCompile(`(?m)^[\t ]*(?:export[\t ]+(?:default[\t ]+)?)?class[\t ]+([A-Z][A-Za-z0-9_$]*)[\t ]+extends[\t ]+(?:React\.)?(?:Pure)?Component\b`)

	// useState(  useEffect(  useRouter(
	reHookCall = regexp.MustCompile(`\buse[A-Z][A-Za-z0-9_]*\s*\(`)
)

// codeStructure is the heuristic structure of one markup file.
type codeStructure struct {
	Components []string
	Hooks      int
}

// analyzeCodeStructure finds component declarations and hook call sites
// with regular expressions. Component names are deduplicated per file.
func analyzeCodeStructure(content string) codeStructure {
	seen := make(map[string]bool)
	var cs codeStructure
	for _, re := range []*regexp.Regexp{reFuncComponent, reArrowComponent, reClassComponent} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			name := m[1]
			if seen[name] {
				continue
			}
			seen[name] = true
			cs.Components = append(cs.Components, name)
		}
	}
	cs.Hooks = len(reHookCall.FindAllStringIndex(content, -1))
	return cs
}

// ExtractFacts computes codebase-wide counters. Skipped files count toward
// their extension bucket and API routes but contribute nothing that needs
// their content.
func ExtractFacts(files []models.FileOutcome, profile *framework.Profile) models.CodebaseFacts {
	facts := models.CodebaseFacts{
		TotalFiles:   len(files),
		FeatureUsage: profile.NewFeatureUsage(),
	}
	features := profile.Features()

	for _, f := range files {
		rec := f.Record
		switch bucketOf(rec.Extension) {
		case bucketScript:
			facts.ScriptFiles++
		case bucketTyped:
			facts.TypedFiles++
		case bucketStyle:
			facts.StyleFiles++
		}

		if isCode(rec.Extension) && isAPIPath(rec.Path) {
			facts.APIRouteCount++
		}

		if f.Skipped() {
			facts.SkippedFiles++
			continue
		}

		if isCode(rec.Extension) {
			for _, feature := range features {
				if strings.Contains(rec.Content, feature) {
					facts.FeatureUsage[feature]++
				}
			}
		}

		if isMarkup(rec.Extension) {
			cs := analyzeCodeStructure(rec.Content)
			facts.ComponentCount += len(cs.Components)
			facts.HookCount += cs.Hooks
		}
	}

	return facts
}

// AnalyzeComponents classifies every readable markup file as framework
// specific or portable, and counts data-fetching and routing-aware files.
func AnalyzeComponents(files []models.FileOutcome, profile *framework.Profile) models.ComponentFacts {
	var facts models.ComponentFacts

	for _, f := range files {
		if f.Skipped() || !isMarkup(f.Record.Extension) {
			continue
		}
		content := f.Record.Content

		facts.TotalComponents += len(analyzeCodeStructure(content).Components)

		if profile.IsFrameworkSpecificSource(content) {
			facts.FrameworkSpecificComponents++
		} else {
			facts.PortableComponents++
		}
		if profile.IsDataFetchingSource(content) {
			facts.ComponentsWithDataFetching++
		}
		if profile.IsRoutingAwareSource(content) {
			facts.ComponentsWithRouting++
		}
	}

	return facts
}
