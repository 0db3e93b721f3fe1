package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
)

func TestAnalyzeMiddleware(t *testing.T) {
	files := []models.FileRecord{
		{Path: "middleware.ts", Content: "export const config = { matcher: ['/admin/:path*'] }"},
		{Path: "src/auth-middleware.js", Content: "export function check(req) { return true }"},
		{Path: "lib/edge/middleware.ts", Content: "export const runtime = 'edge'"},
		{Path: "middleware/index.ts", Content: "export const config = { matcher: [] }"},
		{Path: "pages/index.tsx", Content: "export default function Home() {}"},
	}

	got := AnalyzeMiddleware(files, framework.NextJS())

	assert.Equal(t, []models.Middleware{
		{Name: "middleware.ts", IsComplex: true},
		{Name: "src/auth-middleware.js", IsComplex: false},
		{Name: "lib/edge/middleware.ts", IsComplex: true},
	}, got.Middlewares)
	assert.Equal(t, 2, got.ComplexMiddlewares)
}

func TestAnalyzeMiddleware_None(t *testing.T) {
	got := AnalyzeMiddleware(nil, framework.NextJS())
	assert.NotNil(t, got.Middlewares)
	assert.Empty(t, got.Middlewares)
	assert.Zero(t, got.ComplexMiddlewares)
}

func TestAnalyzeAPI(t *testing.T) {
	got := AnalyzeAPI([]models.FileOutcome{
		outcome("pages/api/hello.ts", ""),
		outcome("pages/api/users/[id].js", ""),
		outcome("app/api/items/[...rest]/route.tsx", ""),
		outcome("pages/api/README.md", ""),
		outcome("pages/apis.ts", ""),
		failed("pages/api/broken.ts"),
	})

	assert.Equal(t, models.APIAnalysis{APIFiles: 4, APIEndpoints: 4, DynamicAPIEndpoints: 2}, got)
}
