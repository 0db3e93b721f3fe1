package analyzer

import (
	"path"
	"strings"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
)

// AnalyzeMiddleware lists middleware files. A middleware is complex when it
// targets the edge runtime or declares a route matcher.
func AnalyzeMiddleware(files []models.FileRecord, profile *framework.Profile) models.MiddlewareAnalysis {
	result := models.MiddlewareAnalysis{Middlewares: []models.Middleware{}}
	for _, rec := range files {
		if !strings.Contains(path.Base(rec.Path), "middleware") {
			continue
		}
		mw := models.Middleware{
			Name:      rec.Path,
			IsComplex: profile.IsComplexMiddleware(rec.Content),
		}
		if mw.IsComplex {
			result.ComplexMiddlewares++
		}
		result.Middlewares = append(result.Middlewares, mw)
	}
	return result
}

// AnalyzeAPI counts API endpoints. Every script or typed file under an api
// directory is one endpoint; bracketed paths are dynamic.
func AnalyzeAPI(files []models.FileOutcome) models.APIAnalysis {
	var result models.APIAnalysis
	for _, f := range files {
		p := f.Record.Path
		if !isCode(f.Record.Extension) || !isAPIPath(p) {
			continue
		}
		result.APIFiles++
		result.APIEndpoints++
		if strings.Contains(p, "[") && strings.Contains(p, "]") {
			result.DynamicAPIEndpoints++
		}
	}
	return result
}
