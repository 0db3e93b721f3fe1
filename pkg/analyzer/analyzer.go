// Package analyzer inspects a Next.js project and estimates how much of a
// migration to React Router can be automated.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/logger"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/source"
	"github.com/rg0now/next-migration-survey/pkg/transform"
)

// ErrValidationFailed is returned when a pipeline entry point is unusable.
var ErrValidationFailed = errors.New("system validation failed")

// ProgressFunc receives stage milestones of a run.
type ProgressFunc func(percent int, message string)

// Options configures an Analyzer. Zero values select defaults.
type Options struct {
	Profile   *framework.Profile
	Engine    *transform.Engine
	Validator *Validator
	// Reader reads file contents; nil uses a fresh content cache per run.
	Reader    source.Reader
	CacheSize int
	Progress  ProgressFunc
	Logger    logger.Logger
}

// Analyzer orchestrates one analysis of a project.
type Analyzer struct {
	profile   *framework.Profile
	deps      *DependencyAnalyzer
	validator *Validator
	signals   *SignalDetector
	reader    source.Reader
	cacheSize int
	progress  ProgressFunc
	log       logger.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts Options) *Analyzer {
	profile := opts.Profile
	if profile == nil {
		profile = framework.NextJS()
	}
	engine := opts.Engine
	if engine == nil {
		engine = transform.NewEngine()
	}
	validator := opts.Validator
	if validator == nil {
		validator = NewValidator(profile, engine)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(int, string) {}
	}

	return &Analyzer{
		profile:   profile,
		deps:      NewDependencyAnalyzer(profile),
		validator: validator,
		signals:   NewSignalDetector(),
		reader:    opts.Reader,
		cacheSize: opts.CacheSize,
		progress:  progress,
		log:       log,
	}
}

// Validate runs the system validator only.
func (a *Analyzer) Validate() models.ValidationResult {
	result := a.validator.Validate()
	for _, c := range result.Components {
		if c.Status == models.StatusError {
			a.log.Debug("Probe failed", logger.F("component", c.Name), logger.F("error", c.Message))
		}
	}
	return result
}

// Analyze runs the whole pipeline over the handles. When manifest is nil the
// root-most package.json among the handles is used. Validation failures,
// cancellation and panics abort the run without a partial result.
func (a *Analyzer) Analyze(ctx context.Context, handles []source.Handle, manifest *models.Manifest) (result *models.SystemAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("Analysis panicked", logger.F("panic", r))
			result, err = nil, fmt.Errorf("system analysis failed: %v", r)
		}
	}()

	a.log.Info("Starting analysis", logger.F("files", len(handles)))

	a.progress(0, "Validating system components")
	validation := a.Validate()
	if !validation.Valid {
		return nil, fmt.Errorf("system analysis failed: %w: %s", ErrValidationFailed, strings.Join(validation.Issues, ", "))
	}

	reader := a.reader
	if reader == nil {
		cache, err := source.NewCache(a.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("system analysis failed: %w", err)
		}
		reader = cache
	}

	a.progress(10, "Reading files")
	outcomes := make([]models.FileOutcome, 0, len(handles))
	for _, h := range handles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("system analysis failed: %w", err)
		}
		o := source.Load(ctx, reader, h)
		if o.Skipped() {
			a.log.Warn("Skipping file",
				logger.F("path", o.Record.Path),
				logger.F("reason", o.Skip.Kind),
				logger.F("error", o.Skip.Message))
		}
		outcomes = append(outcomes, o)
	}
	records := source.Records(outcomes)

	if manifest == nil {
		m, err := source.LoadManifest(ctx, reader, handles)
		if err != nil {
			a.log.Warn("Ignoring unusable manifest", logger.F("error", err))
		}
		manifest = m
	}

	a.progress(30, "Analyzing codebase")
	codebase := ExtractFacts(outcomes, a.profile)
	a.log.Debug("Extracted codebase facts",
		logger.F("total", codebase.TotalFiles),
		logger.F("components", codebase.ComponentCount),
		logger.F("skipped", codebase.SkippedFiles))

	a.progress(45, "Analyzing components")
	components := AnalyzeComponents(outcomes, a.profile)

	a.progress(60, "Analyzing dependencies")
	dependencies := a.deps.Analyze(manifest)
	advisory := CheckVersionCompatibility(dependencies.Dependencies)

	a.progress(70, "Analyzing routes")
	routing := BuildRoutes(source.AllRecords(outcomes), a.profile)
	a.log.Debug("Built route topology",
		logger.F("routes", len(routing.Routes)),
		logger.F("dynamic", routing.DynamicRoutes),
		logger.F("complex", routing.ComplexRoutes))

	a.progress(80, "Analyzing middleware and API routes")
	middleware := AnalyzeMiddleware(records, a.profile)
	api := AnalyzeAPI(outcomes)

	a.progress(90, "Calculating readiness")
	readiness := CalculateReadiness(ReadinessInput{
		Codebase:     codebase,
		Components:   components,
		Dependencies: dependencies,
		Routing:      routing,
	})

	result = &models.SystemAnalysis{
		Codebase:        codebase,
		Dependencies:    dependencies,
		Routing:         routing,
		Components:      components,
		Readiness:       readiness,
		Validation:      validation,
		Middleware:      &middleware,
		API:             &api,
		VersionAdvisory: &advisory,
		Hotspots:        a.signals.Hotspots(records),
	}

	a.progress(100, "Analysis complete")
	a.log.Info("Analysis complete",
		logger.F("score", readiness.Score),
		logger.F("category", readiness.Category))

	return result, nil
}
