package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

// pattern is one line-level signal matcher.
type pattern struct {
	signal      string
	score       int
	description string
	re          *regexp.Regexp
}

// Import modules with a dedicated signal. Other next/* imports are internal.
var importSignals = map[string]pattern{
	"next/image":      {models.SignalImageImport, 1, "Image component needs a plain <img> or an image library", nil},
	"next/link":       {models.SignalLinkImport, 1, "Link must come from react-router-dom and use to=", nil},
	"next/head":       {models.SignalHeadImport, 1, "Head management needs react-helmet-async", nil},
	"next/dynamic":    {models.SignalDynamicImport, 2, "dynamic() maps to React.lazy with Suspense", nil},
	"next/router":     {models.SignalRouterImport, 2, "Router API differs in React Router", nil},
	"next/navigation": {models.SignalRouterImport, 2, "Router API differs in React Router", nil},
}

var internalImport = pattern{models.SignalInternalImport, 3, "Framework module has no direct React equivalent", nil}

var reImport = regexp.MustCompile(`(?:\bfrom\s+|\bimport\s+|\brequire\(\s*)['"](next/[\w./-]+)['"]`)

var usagePatterns = []pattern{
	{models.SignalRouterHook, 2, "useRouter() must be split into useNavigate/useParams/useLocation",
		regexp.MustCompile(`\buseRouter\s*\(`)},
	{models.SignalServerSideProps, 3, "Server-side data fetching must move into a loader",
		regexp.MustCompile(`\bexport\s+(?:async\s+)?(?:function|const|let)\s+getServerSideProps\b`)},
	{models.SignalStaticProps, 3, "Static data fetching must move into a loader or build step",
		regexp.MustCompile(`\bexport\s+(?:async\s+)?(?:function|const|let)\s+getStaticProps\b`)},
	{models.SignalStaticPaths, 3, "Static path generation has no client-side equivalent",
		regexp.MustCompile(`\bexport\s+(?:async\s+)?(?:function|const|let)\s+getStaticPaths\b`)},
	{models.SignalAPIHandler, 3, "API route needs a separate server",
		regexp.MustCompile(`\bNextApi(?:Request|Response|Handler)\b`)},
	{models.SignalPublicEnv, 1, "Public env vars are read from import.meta.env.VITE_*",
		regexp.MustCompile(`\bprocess\.env\.NEXT_PUBLIC_\w+`)},
	{models.SignalClientDirective, 1, "Client directive is meaningless outside server components",
		regexp.MustCompile(`^\s*['"]use client['"]`)},
}

// SignalDetector finds framework couplings line by line and scores files by
// how much manual migration work they carry.
type SignalDetector struct {
	usage []pattern
}

// NewSignalDetector creates a new SignalDetector.
func NewSignalDetector() *SignalDetector {
	return &SignalDetector{usage: usagePatterns}
}

// DetectSignals returns the signals of one file's text in line order.
func (sd *SignalDetector) DetectSignals(content string) []models.Signal {
	var signals []models.Signal

	for i, line := range strings.Split(content, "\n") {
		lineNo := i + 1

		for _, m := range reImport.FindAllStringSubmatch(line, -1) {
			p, ok := importSignals[m[1]]
			if !ok {
				p = internalImport
			}
			signals = append(signals, newSignal(p, lineNo, line))
		}

		for _, p := range sd.usage {
			if p.re.MatchString(line) {
				signals = append(signals, newSignal(p, lineNo, line))
			}
		}
	}

	return signals
}

// DetectFile scores and classifies one file.
func (sd *SignalDetector) DetectFile(rec models.FileRecord) models.FileReport {
	signals := sd.DetectSignals(rec.Content)
	score := 0
	for _, sig := range signals {
		score += sig.Score
	}
	if signals == nil {
		signals = []models.Signal{}
	}
	return models.FileReport{
		Path:           rec.Path,
		Score:          score,
		Classification: ClassifyFile(score),
		Signals:        signals,
	}
}

// Hotspots reports every script or typed file that carries at least one
// signal, highest score first.
func (sd *SignalDetector) Hotspots(files []models.FileRecord) []models.FileReport {
	var reports []models.FileReport
	for _, rec := range files {
		if !isCode(rec.Extension) {
			continue
		}
		r := sd.DetectFile(rec)
		if r.Score > models.ThresholdPortable {
			reports = append(reports, r)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Score != reports[j].Score {
			return reports[i].Score > reports[j].Score
		}
		return reports[i].Path < reports[j].Path
	})
	return reports
}

// ClassifyFile buckets a file score.
func ClassifyFile(score int) string {
	switch {
	case score <= models.ThresholdPortable:
		return models.FilePortable
	case score <= models.ThresholdLight:
		return models.FileLight
	case score <= models.ThresholdHeavy:
		return models.FileHeavy
	default:
		return models.FileRewrite
	}
}

func newSignal(p pattern, line int, text string) models.Signal {
	return models.Signal{
		Type:        p.signal,
		Line:        line,
		Score:       p.score,
		Snippet:     truncateSnippet(text),
		Description: p.description,
	}
}

// truncateSnippet collapses whitespace and caps the snippet length.
func truncateSnippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	maxLen := 200
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}

	return s
}
