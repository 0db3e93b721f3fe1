// Package framework holds the static tables that describe the source
// framework: its feature vocabulary, package names, replacement table and
// routing conventions. A Profile is built once and shared read-only by every
// analyzer and by the transform engine.
package framework

import "strings"

// Feature vocabulary keys.
const (
	FeatureImage           = "next/image"
	FeatureLink            = "next/link"
	FeatureHead            = "next/head"
	FeatureRouter          = "next/router"
	FeatureServerSideProps = "getServerSideProps"
	FeatureStaticProps     = "getStaticProps"
	FeatureStaticPaths     = "getStaticPaths"
	FeatureRouterHook      = "useRouter"
)

// RoutingRoot describes one file-system routing directory.
type RoutingRoot struct {
	// Dir is the directory segment that anchors routes ("pages", "app").
	Dir string
	// PageFile, when set, is the only base name that produces a route;
	// otherwise every script/typed file under Dir routes.
	PageFile string
	// Layouts are base names that mark their directory subtree as laid out.
	Layouts []string
	// ErrorBoundaries are base names that mark their subtree as guarded.
	ErrorBoundaries []string
	// IndexFile is the base name of a directory index route.
	IndexFile string
}

// Profile is the immutable description of the source framework.
type Profile struct {
	Name string

	features          []string
	dataFetching      []string
	clientFetch       []string
	routingMarkers    []string
	namespacePrefix   string
	corePackage       string
	reservedPrefixes  []string
	peerPackages      []string
	internalRouterPkg string
	targetRouterPkgs  []string
	replacements      map[string]string
	roots             []RoutingRoot
	middlewareMarkers []string
}

var nextJS = &Profile{
	Name: "nextjs",
	features: []string{
		FeatureImage,
		FeatureLink,
		FeatureHead,
		FeatureRouter,
		FeatureServerSideProps,
		FeatureStaticProps,
		FeatureStaticPaths,
		FeatureRouterHook,
	},
	dataFetching:      []string{FeatureServerSideProps, FeatureStaticProps, FeatureStaticPaths},
	clientFetch:       []string{"useQuery", "useSWR", "fetch("},
	routingMarkers:    []string{FeatureRouterHook, FeatureRouter, FeatureLink, "next/navigation"},
	namespacePrefix:   "next/",
	corePackage:       "next",
	reservedPrefixes:  []string{"next-", "@next/"},
	peerPackages:      []string{"react", "react-dom"},
	internalRouterPkg: "next/router",
	targetRouterPkgs:  []string{"react-router", "react-router-dom"},
	replacements: map[string]string{
		"next":         "react + react-dom + react-router-dom",
		"next-auth":    "@auth/core",
		"@next/font":   "fontsource",
		"next-themes":  "usehooks-ts",
		"next-i18next": "i18next + react-i18next",
		"next-seo":     "react-helmet-async",
		"next-sitemap": "vite-plugin-sitemap",
	},
	roots: []RoutingRoot{
		{
			Dir:             "pages",
			Layouts:         []string{"_app"},
			ErrorBoundaries: []string{"_error"},
			IndexFile:       "index",
		},
		{
			Dir:             "app",
			PageFile:        "page",
			Layouts:         []string{"layout"},
			ErrorBoundaries: []string{"error"},
		},
	},
	middlewareMarkers: []string{"edge", "matcher"},
}

// NextJS returns the shared Next.js profile.
func NextJS() *Profile {
	return nextJS
}

// Features returns the feature vocabulary in declaration order.
func (p *Profile) Features() []string {
	return append([]string(nil), p.features...)
}

// NewFeatureUsage returns a zeroed counter for every vocabulary entry.
func (p *Profile) NewFeatureUsage() map[string]int {
	usage := make(map[string]int, len(p.features))
	for _, f := range p.features {
		usage[f] = 0
	}
	return usage
}

// DataFetchingExports returns the framework's data-fetching export names.
func (p *Profile) DataFetchingExports() []string {
	return append([]string(nil), p.dataFetching...)
}

// IsFrameworkSpecificSource reports whether text imports from the framework
// namespace or declares a data-fetching export.
func (p *Profile) IsFrameworkSpecificSource(text string) bool {
	if strings.Contains(text, p.namespacePrefix) {
		return true
	}
	return containsAny(text, p.dataFetching)
}

// IsDataFetchingSource reports whether text fetches data on the server or
// through a recognized client fetch call.
func (p *Profile) IsDataFetchingSource(text string) bool {
	return containsAny(text, p.dataFetching) || containsAny(text, p.clientFetch)
}

// IsRoutingAwareSource reports whether text references the framework router.
func (p *Profile) IsRoutingAwareSource(text string) bool {
	return containsAny(text, p.routingMarkers)
}

// IsComplexMiddleware reports whether middleware text uses edge runtime or
// matcher configuration.
func (p *Profile) IsComplexMiddleware(text string) bool {
	return containsAny(text, p.middlewareMarkers)
}

// CorePackage is the framework's own package name.
func (p *Profile) CorePackage() string {
	return p.corePackage
}

// PeerPackages returns the UI libraries the core package requires.
func (p *Profile) PeerPackages() []string {
	return append([]string(nil), p.peerPackages...)
}

// InternalRouterPackage is the framework's router module name.
func (p *Profile) InternalRouterPackage() string {
	return p.internalRouterPkg
}

// TargetRouterPackages returns packages that provide the target router.
func (p *Profile) TargetRouterPackages() []string {
	return append([]string(nil), p.targetRouterPkgs...)
}

// IsFrameworkPackage reports whether a package name belongs to the framework.
func (p *Profile) IsFrameworkPackage(name string) bool {
	if name == p.corePackage {
		return true
	}
	for _, prefix := range p.reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Replacement returns the recommended substitute for a framework package, or
// "unknown" when the table has no entry.
func (p *Profile) Replacement(name string) string {
	if r, ok := p.replacements[name]; ok {
		return r
	}
	return "unknown"
}

// Roots returns the routing roots in precedence order.
func (p *Profile) Roots() []RoutingRoot {
	roots := make([]RoutingRoot, len(p.roots))
	copy(roots, p.roots)
	return roots
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
