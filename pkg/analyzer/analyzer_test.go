package analyzer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/logger"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/source"
)

const shopProject = `-- package.json --
{
  "name": "shop",
  "dependencies": {
    "next": "^13.4.0",
    "react": "^18.2.0",
    "react-dom": "^18.2.0"
  },
  "devDependencies": {
    "typescript": "4.3.5"
  }
}
-- pages/_app.tsx --
export default function App({ Component, pageProps }) {
  return <Component {...pageProps} />
}
-- pages/index.tsx --
import Link from 'next/link';

export default function Home() {
  return <Link href="/blog">Blog</Link>
}
-- pages/blog/[...slug].tsx --
import { useRouter } from 'next/router';

export default function Post() {
  const router = useRouter();
  return <h1>{router.query.slug}</h1>
}

export async function getServerSideProps() {
  return { props: {} }
}
-- pages/api/hello.ts --
export default function handler(req, res) {
  res.json({ ok: true })
}
-- components/Button.tsx --
export const Button = ({ label }) => <button>{label}</button>;
-- middleware.ts --
export const config = { matcher: ['/blog/:path*'] }
-- styles/globals.css --
body { margin: 0 }
`

func shopHandles(t *testing.T) []source.Handle {
	t.Helper()
	handles, err := source.ParseArchive([]byte(shopProject))
	require.NoError(t, err)
	return handles
}

func newTestAnalyzer(opts Options) *Analyzer {
	if opts.Logger == nil {
		opts.Logger = logger.NewSilent()
	}
	return NewAnalyzer(opts)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	got, err := newTestAnalyzer(Options{}).Analyze(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, got.Codebase.TotalFiles)
	assert.Equal(t, 0, got.Codebase.ComponentCount)
	for _, n := range got.Codebase.FeatureUsage {
		assert.Zero(t, n)
	}
	assert.Empty(t, got.Dependencies.Dependencies)
	assert.True(t, got.Dependencies.Compatibility.Compatible)
	assert.Empty(t, got.Dependencies.Compatibility.Issues)
	assert.Empty(t, got.Routing.Routes)

	assert.Equal(t, 100, got.Readiness.Score)
	assert.Equal(t, models.CategorySimple, got.Readiness.Category)
	assert.Empty(t, got.Readiness.ManualInterventionAreas)
	assert.True(t, got.Validation.Valid)
}

func TestAnalyze_Project(t *testing.T) {
	var milestones []int
	a := newTestAnalyzer(Options{
		Progress: func(percent int, _ string) { milestones = append(milestones, percent) },
	})

	got, err := a.Analyze(context.Background(), shopHandles(t), nil)
	require.NoError(t, err)

	assert.Equal(t, 8, got.Codebase.TotalFiles)
	assert.Equal(t, 1, got.Codebase.APIRouteCount)
	assert.Equal(t, 1, got.Codebase.StyleFiles)
	assert.Equal(t, 1, got.Codebase.FeatureUsage[framework.FeatureServerSideProps])
	assert.Equal(t, 1, got.Codebase.FeatureUsage[framework.FeatureRouter])

	assert.Equal(t, 4, got.Components.TotalComponents)
	assert.Equal(t, 2, got.Components.FrameworkSpecificComponents)

	require.Len(t, got.Routing.Routes, 2)
	assert.Equal(t, "/", got.Routing.Routes[0].Path)
	assert.Equal(t, "/blog/[...slug]", got.Routing.Routes[1].Path)
	assert.True(t, got.Routing.Routes[1].Layout)
	assert.Equal(t, 1, got.Routing.ComplexRoutes)

	assert.Equal(t, `The dependency "next" is Next.js specific and needs replacement`, got.Dependencies.Compatibility.Issues[0])
	assert.Equal(t, []string{
		"TypeScript version 4.3.5 is less than the recommended version 4.5 for Vite projects",
		"Next.js package will need to be removed and replaced with Vite",
	}, got.VersionAdvisory.Issues)

	require.Len(t, got.Middleware.Middlewares, 1)
	assert.True(t, got.Middleware.Middlewares[0].IsComplex)
	assert.Equal(t, 1, got.API.APIEndpoints)

	// 2 of 4 components are framework specific: -15; incompatible: -20; data fetching: -15
	assert.Equal(t, 50, got.Readiness.Score)
	assert.Equal(t, models.CategoryModerate, got.Readiness.Category)

	require.NotEmpty(t, got.Hotspots)
	assert.Equal(t, "pages/blog/[...slug].tsx", got.Hotspots[0].Path)

	assert.Equal(t, 0, milestones[0])
	assert.Equal(t, 100, milestones[len(milestones)-1])
	assert.IsIncreasing(t, milestones)
}

func TestAnalyze_ExplicitManifestWins(t *testing.T) {
	got, err := newTestAnalyzer(Options{}).Analyze(context.Background(),
		shopHandles(t),
		&models.Manifest{Dependencies: map[string]string{"react": "18.2.0"}})
	require.NoError(t, err)

	assert.True(t, got.Dependencies.Compatibility.Compatible)
	assert.Len(t, got.Dependencies.Dependencies, 1)
}

func TestAnalyze_SkippedFiles(t *testing.T) {
	handles := []source.Handle{
		source.NewMemoryHandle("pages/index.tsx", []byte("export default function Home() {}")),
		source.NewFailingHandle("pages/gone.tsx", errors.New("no such file")),
		source.NewMemoryHandle("pages/bin.jsx", []byte{0xff, 0xfe, 0x00}),
	}

	got, err := newTestAnalyzer(Options{}).Analyze(context.Background(), handles, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, got.Codebase.TotalFiles)
	assert.Equal(t, 2, got.Codebase.TypedFiles)
	assert.Equal(t, 1, got.Codebase.ScriptFiles)
	assert.Equal(t, 2, got.Codebase.SkippedFiles)
	assert.Equal(t, 1, got.Codebase.ComponentCount)

	var routes []string
	for _, r := range got.Routing.Routes {
		routes = append(routes, r.Path)
	}
	assert.Equal(t, []string{"/", "/bin", "/gone"}, routes)
}

func TestAnalyze_UnreadableDynamicRouteCounts(t *testing.T) {
	handles := []source.Handle{
		source.NewMemoryHandle("pages/index.tsx", []byte("export default function Home() {}")),
		source.NewFailingHandle("pages/blog/[...slug].tsx", errors.New("permission denied")),
	}

	got, err := newTestAnalyzer(Options{}).Analyze(context.Background(), handles, nil)
	require.NoError(t, err)

	require.Len(t, got.Routing.Routes, 2)
	assert.Equal(t, "/blog/[...slug]", got.Routing.Routes[1].Path)
	assert.Equal(t, 1, got.Routing.DynamicRoutes)
	assert.Equal(t, 1, got.Routing.ComplexRoutes)
}

func TestAnalyze_LogsThroughOwnLogger(t *testing.T) {
	var own, global bytes.Buffer
	prev := logger.Default()
	logger.SetDefault(logger.New(logger.LevelDebug, &global))
	t.Cleanup(func() { logger.SetDefault(prev) })

	a := NewAnalyzer(Options{Logger: logger.New(logger.LevelWarn, &own)})
	_, err := a.Analyze(context.Background(), []source.Handle{
		source.NewFailingHandle("pages/gone.tsx", errors.New("no such file")),
	}, nil)
	require.NoError(t, err)

	assert.Contains(t, own.String(), "[WARN] Skipping file")
	assert.Contains(t, own.String(), "path=pages/gone.tsx")
	assert.Empty(t, global.String())

	_, err = NewAnalyzer(Options{Logger: logger.NewSilent()}).Analyze(context.Background(), []source.Handle{
		source.NewMemoryHandle("pages/bin.jsx", []byte{0xff, 0x00}),
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, global.String())
}

func TestAnalyze_ValidationFailure(t *testing.T) {
	a := newTestAnalyzer(Options{
		Validator: NewValidatorWithProbes(Probe{Name: "routingAnalyzer"}),
	})

	got, err := a.Analyze(context.Background(), nil, nil)

	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t,
		"system analysis failed: system validation failed: routingAnalyzer validation error: routingAnalyzer function is not available",
		err.Error())
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := newTestAnalyzer(Options{}).Analyze(ctx, shopHandles(t), nil)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, context.Canceled)
}

type panicHandle struct{}

func (panicHandle) Path() string { panic("corrupt handle") }
func (panicHandle) Read(context.Context) ([]byte, error) { return nil, nil }

func TestAnalyze_RecoversPanics(t *testing.T) {
	got, err := newTestAnalyzer(Options{}).Analyze(context.Background(), []source.Handle{panicHandle{}}, nil)

	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, "system analysis failed: corrupt handle", err.Error())
}

func TestAnalyze_ReadsEachFileOnce(t *testing.T) {
	cache, err := source.NewCache(0)
	require.NoError(t, err)

	handles := shopHandles(t)
	_, err = newTestAnalyzer(Options{Reader: cache}).Analyze(context.Background(), handles, nil)
	require.NoError(t, err)

	assert.Equal(t, len(handles), cache.Reads())
}

func TestRun_Lifecycle(t *testing.T) {
	a := newTestAnalyzer(Options{})
	run := NewRun()
	assert.Equal(t, models.RunIdle, run.State())
	assert.Zero(t, run.Duration())

	require.NoError(t, a.Execute(context.Background(), run, nil, nil))
	assert.Equal(t, models.RunSucceeded, run.State())

	result, err := run.Result()
	require.NoError(t, err)
	assert.Equal(t, 100, result.Readiness.Score)

	err = a.Execute(context.Background(), run, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRun_Failed(t *testing.T) {
	a := newTestAnalyzer(Options{Validator: NewValidatorWithProbes(Probe{Name: "x"})})
	run := NewRun()

	err := a.Execute(context.Background(), run, nil, nil)
	require.Error(t, err)
	assert.Equal(t, models.RunFailed, run.State())

	result, runErr := run.Result()
	assert.Nil(t, result)
	assert.Equal(t, err, runErr)
}

func TestRun_Transitions(t *testing.T) {
	run := NewRun()

	assert.ErrorIs(t, run.Succeed(nil), ErrInvalidTransition)
	assert.ErrorIs(t, run.Fail(errors.New("x")), ErrInvalidTransition)

	require.NoError(t, run.Start())
	assert.Equal(t, models.RunRunning, run.State())
	assert.ErrorIs(t, run.Start(), ErrInvalidTransition)

	require.NoError(t, run.Fail(errors.New("x")))
	assert.ErrorIs(t, run.Succeed(nil), ErrInvalidTransition)
}
