// Package transform rewrites Next.js source text toward React Router idioms
// with an ordered table of regular-expression rules.
package transform

import (
	"regexp"
	"strings"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

// Rule is one pattern-based rewrite. Exactly one of Replacement and
// ReplaceFunc is used; ReplaceFunc wins when set and receives the submatches
// of each occurrence.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
	ReplaceFunc func(groups []string) string
	Description string
	Complexity  string
	Category    string
	// Warning is reported once per file when the rule fires.
	Warning string
}

// RuleInfo is the serializable view of a rule.
type RuleInfo struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Description string `json:"description" yaml:"description"`
	Complexity  string `json:"complexity" yaml:"complexity"`
	Category    string `json:"category" yaml:"category"`
}

// Info returns the serializable view of r.
func (r Rule) Info() RuleInfo {
	return RuleInfo{
		Pattern:     r.Pattern.String(),
		Description: r.Description,
		Complexity:  r.Complexity,
		Category:    r.Category,
	}
}

// apply rewrites every occurrence and returns the new text and the number of
// occurrences.
func (r Rule) apply(code string) (string, int) {
	n := len(r.Pattern.FindAllStringIndex(code, -1))
	if n == 0 {
		return code, 0
	}
	if r.ReplaceFunc != nil {
		return r.Pattern.ReplaceAllStringFunc(code, func(match string) string {
			return r.ReplaceFunc(r.Pattern.FindStringSubmatch(match))
		}), n
	}
	return r.Pattern.ReplaceAllString(code, r.Replacement), n
}

// routerHooks maps Next.js router imports onto React Router ones.
var routerHooks = map[string][]string{
	"useRouter":       {"useNavigate", "useParams"},
	"usePathname":     {"useLocation"},
	"useSearchParams": {"useSearchParams"},
	"useParams":       {"useParams"},
	"redirect":        {"redirect"},
	"Router":          {"useNavigate"},
}

// rewriteRouterImport rebuilds a named next/router or next/navigation import
// as a react-router-dom import, keeping first-seen order.
func rewriteRouterImport(groups []string) string {
	seen := make(map[string]bool)
	var names []string
	for _, raw := range strings.Split(groups[1], ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		// "useRouter as useR" keeps only the imported name.
		if i := strings.Index(name, " as "); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		mapped, ok := routerHooks[name]
		if !ok {
			mapped = []string{name}
		}
		for _, m := range mapped {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	return "import { " + strings.Join(names, ", ") + " } from 'react-router-dom';"
}

// Data-fetching exports that become a loader.
var reLoaderExport = regexp.MustCompile(`\bexport\s+(?:async\s+function|function|const|let)\s+(?:getServerSideProps|getStaticProps)\b`)

// Framework imports left after all rules ran.
var reResidualImport = regexp.MustCompile(`(?:\bfrom\s+|\bimport\s+|\brequire\(\s*)['"](next(?:/[\w./-]+)?)['"]`)

// Framework identifiers left after all rules ran.
var reResidualIdent = regexp.MustCompile(`\b(useRouter)\s*\(|\b(NextApi\w+)\b`)

var defaultRules = []Rule{
	// Routing.
	{
		Pattern:     regexp.MustCompile(`import\s*\{([^}]*)\}\s*from\s*['"]next/(?:router|navigation)['"];?`),
		ReplaceFunc: rewriteRouterImport,
		Description: "next/router imports to react-router-dom",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryRouting,
	},
	{
		Pattern:     regexp.MustCompile(`import\s+Link\s+from\s*['"]next/link['"];?`),
		Replacement: "import { Link } from 'react-router-dom';",
		Description: "next/link import to react-router-dom Link",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryRouting,
	},
	{
		Pattern:     regexp.MustCompile(`([ \t]*)\b(?:const|let|var)\s+router\s*=\s*useRouter\(\s*\);?`),
		Replacement: "${1}const navigate = useNavigate();\n${1}const params = useParams();",
		Description: "useRouter hook to useNavigate and useParams",
		Complexity:  models.ComplexityMedium,
		Category:    models.RuleCategoryRouting,
	},
	{
		Pattern:     regexp.MustCompile(`\brouter\.push\(`),
		Replacement: "navigate(",
		Description: "router.push to navigate",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryRouting,
	},
	{
		Pattern:     regexp.MustCompile(`\brouter\.replace\(([^()]*)\)`),
		Replacement: "navigate($1, { replace: true })",
		Description: "router.replace to navigate with replace",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryRouting,
	},
	{
		Pattern:     regexp.MustCompile(`\brouter\.back\(\s*\)`),
		Replacement: "navigate(-1)",
		Description: "router.back to navigate(-1)",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryRouting,
	},
	{
		Pattern:     regexp.MustCompile(`\brouter\.query\b`),
		Replacement: "params",
		Description: "router.query to route params",
		Complexity:  models.ComplexityMedium,
		Category:    models.RuleCategoryRouting,
		Warning:     "router.query also carried search parameters; use useSearchParams for those",
	},
	{
		Pattern:     regexp.MustCompile(`\busePathname\(\s*\)`),
		Replacement: "useLocation().pathname",
		Description: "usePathname to useLocation().pathname",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryRouting,
	},
	{
		Pattern:     regexp.MustCompile(`(<Link\b[^>]*?\s)href=`),
		Replacement: "${1}to=",
		Description: "Link href attribute to to",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryRouting,
	},

	// Components.
	{
		Pattern:     regexp.MustCompile(`(?m)^[ \t]*import\s+\w+\s+from\s*['"]next/image['"];?[ \t]*\r?\n?`),
		Replacement: "",
		Description: "remove next/image import",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryComponent,
	},
	{
		Pattern:     regexp.MustCompile(`<Image\b`),
		Replacement: "<img",
		Description: "Image component to img element",
		Complexity:  models.ComplexityMedium,
		Category:    models.RuleCategoryComponent,
		Warning:     "Image props such as priority, placeholder and fill are not supported by <img>",
	},
	{
		Pattern:     regexp.MustCompile(`import\s+Head\s+from\s*['"]next/head['"];?`),
		Replacement: "import { Helmet } from 'react-helmet-async';",
		Description: "next/head import to react-helmet-async",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryComponent,
	},
	{
		Pattern:     regexp.MustCompile(`<(/?)Head\b`),
		Replacement: "<${1}Helmet",
		Description: "Head element to Helmet",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryComponent,
		Warning:     "Helmet requires a HelmetProvider at the application root",
	},
	{
		Pattern:     regexp.MustCompile(`import\s+dynamic\s+from\s*['"]next/dynamic['"];?`),
		Replacement: "import { lazy } from 'react';",
		Description: "next/dynamic import to React lazy",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryComponent,
	},
	{
		Pattern:     regexp.MustCompile(`\bdynamic\(\s*\(\)\s*=>`),
		Replacement: "lazy(() =>",
		Description: "dynamic() to lazy()",
		Complexity:  models.ComplexityMedium,
		Category:    models.RuleCategoryComponent,
		Warning:     "lazy components must render inside a Suspense boundary; dynamic() options are dropped",
	},
	{
		Pattern:     regexp.MustCompile(`:\s*NextPage\b(?:<[^>]*>)?`),
		Replacement: ": React.FC",
		Description: "NextPage type to React.FC",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryComponent,
	},

	// API routes.
	{
		Pattern:     regexp.MustCompile(`import\s+(?:type\s+)?\{[^}]*\bNextApi(?:Request|Response)\b[^}]*\}\s*from\s*['"]next['"];?`),
		Replacement: "import type { Request, Response } from 'express';",
		Description: "NextApi type imports to express",
		Complexity:  models.ComplexityComplex,
		Category:    models.RuleCategoryAPI,
		Warning:     "API routes must be served by a separate backend",
	},
	{
		Pattern:     regexp.MustCompile(`\bNextApi(Request|Response)\b`),
		Replacement: "$1",
		Description: "NextApiRequest and NextApiResponse to express types",
		Complexity:  models.ComplexityMedium,
		Category:    models.RuleCategoryAPI,
	},

	// Data fetching.
	{
		Pattern:     regexp.MustCompile(`:\s*Get(?:ServerSideProps|StaticProps|StaticPaths)\b(?:<[^>]*>)?`),
		Replacement: "",
		Description: "drop data-fetching type annotations",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryDataFetching,
	},
	{
		Pattern:     regexp.MustCompile(`\bGet(?:ServerSide|Static)PropsContext\b`),
		Replacement: "LoaderFunctionArgs",
		Description: "data-fetching context type to LoaderFunctionArgs",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryDataFetching,
	},
	{
		Pattern:     regexp.MustCompile(`\bexport\s+(async\s+function|function|const|let)\s+getServerSideProps\b`),
		Replacement: "export $1 loader",
		Description: "getServerSideProps to loader",
		Complexity:  models.ComplexityComplex,
		Category:    models.RuleCategoryDataFetching,
		Warning:     "loader must return data instead of { props }; read it with useLoaderData",
	},
	{
		Pattern:     regexp.MustCompile(`\bexport\s+(async\s+function|function|const|let)\s+getStaticProps\b`),
		Replacement: "export $1 loader",
		Description: "getStaticProps to loader",
		Complexity:  models.ComplexityComplex,
		Category:    models.RuleCategoryDataFetching,
		Warning:     "loader must return data instead of { props }; read it with useLoaderData",
	},
	{
		Pattern:     regexp.MustCompile(`\bexport\s+(async\s+function|function|const|let)\s+getStaticPaths\b`),
		Replacement: "export $1 legacyStaticPaths",
		Description: "getStaticPaths to legacyStaticPaths",
		Complexity:  models.ComplexityComplex,
		Category:    models.RuleCategoryDataFetching,
		Warning:     "static path generation has no React Router equivalent; legacyStaticPaths is kept for reference",
	},
	{
		Pattern:     regexp.MustCompile(`\bInferGet(?:ServerSide|Static)PropsType<typeof\s+\w+>`),
		Replacement: "Awaited<ReturnType<typeof loader>>",
		Description: "inferred page props to loader return type",
		Complexity:  models.ComplexityMedium,
		Category:    models.RuleCategoryDataFetching,
	},
	{
		Pattern:     regexp.MustCompile(`import\s+(?:type\s+)?\{[^}]*\}\s*from\s*['"]next['"];?`),
		Replacement: "import type { LoaderFunctionArgs } from 'react-router-dom';",
		Description: "next type imports to react-router-dom",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryDataFetching,
	},

	// Configuration.
	{
		Pattern:     regexp.MustCompile(`\bprocess\.env\.NEXT_PUBLIC_(\w+)`),
		Replacement: "import.meta.env.VITE_$1",
		Description: "NEXT_PUBLIC env vars to import.meta.env.VITE_",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryConfig,
		Warning:     "rename NEXT_PUBLIC_ variables to VITE_ in .env files",
	},

	// General.
	{
		Pattern:     regexp.MustCompile(`(?m)^[ \t]*['"]use client['"];?[ \t]*\r?\n?`),
		Replacement: "",
		Description: "remove 'use client' directive",
		Complexity:  models.ComplexitySimple,
		Category:    models.RuleCategoryGeneral,
	},
}

// Rules returns a copy of the rule table in application order.
func Rules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// ByCategory returns the rules of one category in application order.
func ByCategory(category string) []Rule {
	return filter(func(r Rule) bool { return r.Category == category })
}

// ByComplexity returns the rules of one complexity in application order.
func ByComplexity(complexity string) []Rule {
	return filter(func(r Rule) bool { return r.Complexity == complexity })
}

func filter(keep func(Rule) bool) []Rule {
	var out []Rule
	for _, r := range defaultRules {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
