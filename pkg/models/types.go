package models

// FileRecord is one source file of the analyzed project.
type FileRecord struct {
	Path      string `json:"path" yaml:"path"`
	Extension string `json:"extension" yaml:"extension"` // lowercase, including the dot
	Content   string `json:"-" yaml:"-"`
}

// SkipReason explains why a file was excluded from parse-dependent counters.
type SkipReason struct {
	Kind    string `json:"kind" yaml:"kind"` // "unreadable", "unparsable"
	Message string `json:"message" yaml:"message"`
}

// Skip kinds.
const (
	SkipUnreadable = "unreadable"
	SkipUnparsable = "unparsable"
)

// FileOutcome is the per-file result of reading a handle: either a usable
// record or a record with a skip reason. The record's Path and Extension are
// always set so extension-based counters still apply to skipped files.
type FileOutcome struct {
	Record FileRecord
	Skip   *SkipReason
}

// Skipped reports whether the file was excluded from parsing.
func (o FileOutcome) Skipped() bool {
	return o.Skip != nil
}

// CodebaseFacts holds aggregate counts over the whole file set.
type CodebaseFacts struct {
	TotalFiles     int            `json:"totalFiles" yaml:"totalFiles"`
	ScriptFiles    int            `json:"scriptFiles" yaml:"scriptFiles"`
	TypedFiles     int            `json:"typedFiles" yaml:"typedFiles"`
	StyleFiles     int            `json:"styleFiles" yaml:"styleFiles"`
	ComponentCount int            `json:"componentCount" yaml:"componentCount"`
	HookCount      int            `json:"hookCount" yaml:"hookCount"`
	APIRouteCount  int            `json:"apiRouteCount" yaml:"apiRouteCount"`
	FeatureUsage   map[string]int `json:"featureUsage" yaml:"featureUsage"`
	SkippedFiles   int            `json:"skippedFiles" yaml:"skippedFiles"`
}

// ComponentFacts classifies markup files by their framework coupling.
type ComponentFacts struct {
	TotalComponents             int `json:"totalComponents" yaml:"totalComponents"`
	FrameworkSpecificComponents int `json:"frameworkSpecificComponents" yaml:"frameworkSpecificComponents"`
	PortableComponents          int `json:"portableComponents" yaml:"portableComponents"`
	ComponentsWithDataFetching  int `json:"componentsWithDataFetching" yaml:"componentsWithDataFetching"`
	ComponentsWithRouting       int `json:"componentsWithRouting" yaml:"componentsWithRouting"`
}

// RouteRecord is a logical route derived from one routable file.
type RouteRecord struct {
	Path               string   `json:"path" yaml:"path"`
	ComponentRef       string   `json:"componentRef" yaml:"componentRef"`
	IsDynamic          bool     `json:"isDynamic" yaml:"isDynamic"`
	HasParams          bool     `json:"hasParams" yaml:"hasParams"`
	Params             []string `json:"params" yaml:"params"`
	IsIndex            bool     `json:"isIndex" yaml:"isIndex"`
	IsCatchAll         bool     `json:"isCatchAll" yaml:"isCatchAll"`
	IsOptionalCatchAll bool     `json:"isOptionalCatchAll" yaml:"isOptionalCatchAll"`
	Layout             bool     `json:"layout" yaml:"layout"`
	HasErrorBoundary   bool     `json:"hasErrorBoundary" yaml:"hasErrorBoundary"`

	// Conversion annotations.
	ReactRouterPath string   `json:"reactRouterPath" yaml:"reactRouterPath"`
	Complexity      int      `json:"complexity" yaml:"complexity"`
	Warnings        []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RoutingAnalysis is the route topology of the project.
type RoutingAnalysis struct {
	Routes        []RouteRecord `json:"routes" yaml:"routes"`
	DynamicRoutes int           `json:"dynamicRoutes" yaml:"dynamicRoutes"`
	ComplexRoutes int           `json:"complexRoutes" yaml:"complexRoutes"`
}

// Dependency kinds.
const (
	DependencyProduction  = "production"
	DependencyDevelopment = "development"
)

// DependencyRecord is one declared package of the manifest.
type DependencyRecord struct {
	Name                   string `json:"name" yaml:"name"`
	Version                string `json:"version" yaml:"version"`
	Type                   string `json:"type" yaml:"type"` // production, development
	IsFrameworkSpecific    bool   `json:"isFrameworkSpecific" yaml:"isFrameworkSpecific"`
	RecommendedReplacement string `json:"recommendedReplacement,omitempty" yaml:"recommendedReplacement,omitempty"`
}

// Compatibility is a list of issues and the flag derived from it.
type Compatibility struct {
	Compatible bool     `json:"compatible" yaml:"compatible"`
	Issues     []string `json:"issues" yaml:"issues"`
}

// DependencyAnalysis is the classified manifest.
type DependencyAnalysis struct {
	Dependencies  []DependencyRecord `json:"dependencies" yaml:"dependencies"`
	Compatibility Compatibility      `json:"compatibility" yaml:"compatibility"`
}

// Manifest is the subset of package.json the classifier reads.
type Manifest struct {
	Name            string            `json:"name,omitempty" yaml:"name,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
}

// Readiness categories.
const (
	CategorySimple   = "simple"
	CategoryModerate = "moderate"
	CategoryComplex  = "complex"
)

// Category thresholds on the raw readiness score.
const (
	ThresholdComplex  = 40 // score < 40 is complex
	ThresholdModerate = 70 // 40 <= score < 70 is moderate
)

// ReadinessResult estimates how much of the migration can be automated.
type ReadinessResult struct {
	Score                   int      `json:"score" yaml:"score"`
	Category                string   `json:"category" yaml:"category"`
	AutomationPercentage    int      `json:"automationPercentage" yaml:"automationPercentage"`
	ManualInterventionAreas []string `json:"manualInterventionAreas" yaml:"manualInterventionAreas"`
	Recommendations         []string `json:"recommendations" yaml:"recommendations"`
}

// Component statuses reported by the system validator.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// ComponentStatus is the probe result of one pipeline entry point.
type ComponentStatus struct {
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// ValidationResult is the outcome of probing every pipeline entry point.
type ValidationResult struct {
	Valid      bool              `json:"valid" yaml:"valid"`
	Issues     []string          `json:"issues" yaml:"issues"`
	Components []ComponentStatus `json:"components" yaml:"components"`
}

// Middleware describes one middleware file.
type Middleware struct {
	Name      string `json:"name" yaml:"name"`
	IsComplex bool   `json:"isComplex" yaml:"isComplex"`
}

// MiddlewareAnalysis lists middleware files and how many need manual work.
type MiddlewareAnalysis struct {
	Middlewares        []Middleware `json:"middlewares" yaml:"middlewares"`
	ComplexMiddlewares int          `json:"complexMiddlewares" yaml:"complexMiddlewares"`
}

// APIAnalysis counts server API endpoints that need a separate backend.
type APIAnalysis struct {
	APIFiles            int `json:"apiFiles" yaml:"apiFiles"`
	APIEndpoints        int `json:"apiEndpoints" yaml:"apiEndpoints"`
	DynamicAPIEndpoints int `json:"dynamicApiEndpoints" yaml:"dynamicApiEndpoints"`
}

// SystemAnalysis is the aggregate result of one analysis run.
type SystemAnalysis struct {
	Codebase     CodebaseFacts      `json:"codebase" yaml:"codebase"`
	Dependencies DependencyAnalysis `json:"dependencies" yaml:"dependencies"`
	Routing      RoutingAnalysis    `json:"routing" yaml:"routing"`
	Components   ComponentFacts     `json:"components" yaml:"components"`
	Readiness    ReadinessResult    `json:"readiness" yaml:"readiness"`
	Validation   ValidationResult   `json:"validation" yaml:"validation"`

	Middleware      *MiddlewareAnalysis `json:"middleware,omitempty" yaml:"middleware,omitempty"`
	API             *APIAnalysis        `json:"api,omitempty" yaml:"api,omitempty"`
	VersionAdvisory *Compatibility      `json:"versionAdvisory,omitempty" yaml:"versionAdvisory,omitempty"`
	Hotspots        []FileReport        `json:"hotspots,omitempty" yaml:"hotspots,omitempty"`
}

// Rule complexities.
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// Rule categories.
const (
	RuleCategoryRouting      = "routing"
	RuleCategoryComponent    = "component"
	RuleCategoryDataFetching = "data-fetching"
	RuleCategoryAPI          = "api"
	RuleCategoryConfig       = "config"
	RuleCategoryGeneral      = "general"
)

// TransformResult is the engine output for one file.
type TransformResult struct {
	Path                   string   `json:"path,omitempty" yaml:"path,omitempty"`
	TransformedCode        string   `json:"transformedCode" yaml:"transformedCode"`
	AppliedTransformations []string `json:"appliedTransformations" yaml:"appliedTransformations"`
	Changes                []string `json:"changes" yaml:"changes"`
	Warnings               []string `json:"warnings" yaml:"warnings"`
}

// Run states.
const (
	RunIdle      = "idle"
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// FileReport is the per-file migration hotspot record.
type FileReport struct {
	Path           string   `json:"path" yaml:"path"`
	Score          int      `json:"score" yaml:"score"`
	Classification string   `json:"classification" yaml:"classification"` // portable, light, heavy, rewrite
	Signals        []Signal `json:"signals" yaml:"signals"`
}

// Signal is one detected framework coupling in a file.
type Signal struct {
	Type        string `json:"type" yaml:"type"` // e.g., "router_hook", "server_side_props"
	Line        int    `json:"line" yaml:"line"`
	Score       int    `json:"score" yaml:"score"`
	Snippet     string `json:"snippet" yaml:"snippet"`
	Description string `json:"description" yaml:"description"`
}

// Signal types.
const (
	// Imports.
	SignalImageImport    = "image_import"    // next/image (+1)
	SignalLinkImport     = "link_import"     // next/link (+1)
	SignalHeadImport     = "head_import"     // next/head (+1)
	SignalDynamicImport  = "dynamic_import"  // next/dynamic (+2)
	SignalRouterImport   = "router_import"   // next/router, next/navigation (+2)
	SignalInternalImport = "internal_import" // any other next/* import (+3)

	// Usage.
	SignalRouterHook      = "router_hook"       // useRouter() (+2)
	SignalServerSideProps = "server_side_props" // export getServerSideProps (+3)
	SignalStaticProps     = "static_props"      // export getStaticProps (+3)
	SignalStaticPaths     = "static_paths"      // export getStaticPaths (+3)
	SignalAPIHandler      = "api_handler"       // NextApiRequest / NextApiResponse (+3)
	SignalPublicEnv       = "public_env"        // process.env.NEXT_PUBLIC_* (+1)
	SignalClientDirective = "client_directive"  // 'use client' (+1)
)

// File classifications.
const (
	FilePortable = "portable"
	FileLight    = "light"
	FileHeavy    = "heavy"
	FileRewrite  = "rewrite"
)

// File classification thresholds.
const (
	ThresholdPortable = 0
	ThresholdLight    = 4
	ThresholdHeavy    = 9
	// > 9 = rewrite
)
