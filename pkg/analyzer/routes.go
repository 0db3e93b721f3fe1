package analyzer

import (
	"path"
	"sort"
	"strings"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
)

// Route warnings.
const (
	WarnOptionalCatchAll = "Optional catch-all routes need special handling in React Router"
	WarnCatchAll         = "Catch-all routes use different syntax in React Router (*all)"
	WarnLayout           = "Layout routes need manual setup with Outlet in React Router"
)

// routeFile is a file located under a routing root.
type routeFile struct {
	record models.FileRecord
	root   framework.RoutingRoot
	dir    string   // directory of the file, full path
	segs   []string // directory segments below the root
	base   string   // file name without extension
}

// locate anchors a path at the first segment naming a routing root.
func locate(rec models.FileRecord, roots []framework.RoutingRoot) (routeFile, bool) {
	parts := strings.Split(rec.Path, "/")
	for i, part := range parts[:len(parts)-1] {
		for _, root := range roots {
			if part != root.Dir {
				continue
			}
			name := parts[len(parts)-1]
			return routeFile{
				record: rec,
				root:   root,
				dir:    path.Dir(rec.Path),
				segs:   parts[i+1 : len(parts)-1],
				base:   strings.TrimSuffix(name, path.Ext(name)),
			}, true
		}
	}
	return routeFile{}, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// under reports whether dir is scope or lies below it.
func under(dir, scope string) bool {
	return dir == scope || strings.HasPrefix(dir, scope+"/")
}

// BuildRoutes maps files under the profile's routing roots into route
// records. Layout and error conventions produce no route of their own but
// mark every route below their directory.
func BuildRoutes(files []models.FileRecord, profile *framework.Profile) models.RoutingAnalysis {
	roots := profile.Roots()

	var pages []routeFile
	var layouts, boundaries []string

	for _, rec := range files {
		if !isCode(rec.Extension) {
			continue
		}
		rf, ok := locate(rec, roots)
		if !ok {
			continue
		}
		if len(rf.segs) > 0 && rf.segs[0] == "api" {
			continue
		}

		switch {
		case contains(rf.root.Layouts, rf.base):
			layouts = append(layouts, rf.dir)
		case contains(rf.root.ErrorBoundaries, rf.base):
			boundaries = append(boundaries, rf.dir)
		case rf.root.PageFile != "":
			if rf.base == rf.root.PageFile {
				pages = append(pages, rf)
			}
		case strings.HasPrefix(rf.base, "_"):
			// _document and friends
		default:
			pages = append(pages, rf)
		}
	}

	analysis := models.RoutingAnalysis{Routes: make([]models.RouteRecord, 0, len(pages))}
	for _, rf := range pages {
		route := buildRoute(rf)
		for _, scope := range layouts {
			if under(rf.dir, scope) {
				route.Layout = true
				break
			}
		}
		for _, scope := range boundaries {
			if under(rf.dir, scope) {
				route.HasErrorBoundary = true
				break
			}
		}
		route.ReactRouterPath = ReactRouterPath(route.Path)
		route.Complexity = RouteComplexity(route)
		route.Warnings = RouteWarnings(route)

		if route.IsDynamic {
			analysis.DynamicRoutes++
		}
		if isComplexRoute(route.Path) {
			analysis.ComplexRoutes++
		}
		analysis.Routes = append(analysis.Routes, route)
	}

	sort.SliceStable(analysis.Routes, func(i, j int) bool {
		a, b := analysis.Routes[i], analysis.Routes[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.ComponentRef < b.ComponentRef
	})

	return analysis
}

func buildRoute(rf routeFile) models.RouteRecord {
	segs := make([]string, 0, len(rf.segs)+1)
	for _, s := range rf.segs {
		// route groups do not appear in the URL
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			continue
		}
		segs = append(segs, s)
	}

	isIndex := rf.base == rf.root.IndexFile || rf.base == rf.root.PageFile
	if !isIndex {
		segs = append(segs, rf.base)
	}

	route := models.RouteRecord{
		Path:         "/" + strings.Join(segs, "/"),
		ComponentRef: rf.record.Path,
		IsIndex:      isIndex,
		Params:       []string{},
	}
	for _, s := range segs {
		name, optional, ok := paramOf(s)
		if !ok {
			continue
		}
		route.Params = append(route.Params, name)
		if strings.HasPrefix(name, "...") {
			route.IsCatchAll = true
		}
		if optional {
			route.IsOptionalCatchAll = true
		}
	}
	route.IsDynamic = strings.Contains(route.Path, "[")
	route.HasParams = len(route.Params) > 0
	return route
}

// paramOf extracts the parameter name of a bracketed segment. The ellipsis
// of catch-all names is kept.
func paramOf(seg string) (name string, optional, ok bool) {
	switch {
	case strings.HasPrefix(seg, "[[") && strings.HasSuffix(seg, "]]") && len(seg) > 4:
		return seg[2 : len(seg)-2], true, true
	case strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]") && len(seg) > 2:
		return seg[1 : len(seg)-1], false, true
	}
	return "", false, false
}

// isComplexRoute reports whether a route path is a catch-all or carries
// more than one bracketed segment.
func isComplexRoute(p string) bool {
	if !strings.Contains(p, "[") {
		return false
	}
	if strings.Contains(p, "...") {
		return true
	}
	n := 0
	for _, s := range strings.Split(p, "/") {
		if strings.Contains(s, "[") {
			n++
		}
	}
	return n > 1
}

// RouteComplexity scores one route for conversion effort.
func RouteComplexity(r models.RouteRecord) int {
	score := 0
	if r.IsDynamic {
		score += 2
	}
	if len(r.Params) > 1 {
		score += len(r.Params)
	}
	if strings.Contains(r.Path, "[[") {
		score += 5
	}
	return score
}

// ComplexityLabel buckets a route complexity score.
func ComplexityLabel(score int) string {
	switch {
	case score < 2:
		return models.CategorySimple
	case score < 5:
		return models.CategoryModerate
	default:
		return models.CategoryComplex
	}
}

// RouteWarnings lists the manual steps a route needs after conversion.
func RouteWarnings(r models.RouteRecord) []string {
	var warnings []string
	if strings.Contains(r.Path, "[[") && strings.Contains(r.Path, "]]") {
		warnings = append(warnings, WarnOptionalCatchAll)
	}
	for _, p := range r.Params {
		if strings.Contains(p, "...") {
			warnings = append(warnings, WarnCatchAll)
			break
		}
	}
	if r.Layout {
		warnings = append(warnings, WarnLayout)
	}
	return warnings
}

// ReactRouterPath converts a bracketed route path into React Router syntax:
// [id] becomes :id, catch-alls become *, and [[id]] becomes :id?.
func ReactRouterPath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		name, optional, ok := paramOf(s)
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(name, "..."):
			segs[i] = "*"
		case optional:
			segs[i] = ":" + name + "?"
		default:
			segs[i] = ":" + name
		}
	}
	return strings.Join(segs, "/")
}
