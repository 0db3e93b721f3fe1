package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

func mustWrite(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func paths(hs []Handle) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Path())
	}
	return out
}

func TestFromDir_SkipsIgnoredAndHidden(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "pages/index.tsx", "x")
	mustWrite(t, root, "pages/blog/[slug].tsx", "x")
	mustWrite(t, root, "node_modules/next/index.js", "x")
	mustWrite(t, root, ".next/server/page.js", "x")
	mustWrite(t, root, ".env", "x")
	mustWrite(t, root, "package.json", "{}")

	hs, err := FromDir(root, WalkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"package.json", "pages/blog/[slug].tsx", "pages/index.tsx"}, paths(hs))
}

func TestFromDir_MaxFileBytes(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "small.js", "x")
	mustWrite(t, root, "big.js", "0123456789")

	hs, err := FromDir(root, WalkOptions{MaxFileBytes: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.js"}, paths(hs))
}

func TestFromDir_MissingRoot(t *testing.T) {
	_, err := FromDir(filepath.Join(t.TempDir(), "nope"), WalkOptions{})
	assert.Error(t, err)
}

func TestParseArchive(t *testing.T) {
	hs, err := ParseArchive([]byte(`-- package.json --
{"dependencies": {"next": "13.0.0"}}
-- pages/index.tsx --
export default function Home() { return null }
`))
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "package.json", hs[0].Path())

	data, err := hs[1].Read(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "function Home")
}

func TestParseArchive_DuplicateName(t *testing.T) {
	_, err := ParseArchive([]byte(`-- pages/index.tsx --
first
-- pages/index.tsx --
second
`))
	require.Error(t, err)
	assert.Equal(t, "duplicate file pages/index.tsx", err.Error())
}

func TestFromArchive(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir, "ok.txtar", "-- a.ts --\na\n-- b.ts --\nb\n")
	mustWrite(t, dir, "dup.txtar", "-- a.ts --\na\n-- a.ts --\nb\n")

	hs, err := FromArchive(filepath.Join(dir, "ok.txtar"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "b.ts"}, paths(hs))

	_, err = FromArchive(filepath.Join(dir, "dup.txtar"))
	assert.ErrorContains(t, err, "duplicate file a.ts")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	ok := Load(ctx, ReadDirect, NewMemoryHandle(`src\pages\a.TSX`, []byte("const a = 1")))
	assert.False(t, ok.Skipped())
	assert.Equal(t, "src/pages/a.TSX", ok.Record.Path)
	assert.Equal(t, ".tsx", ok.Record.Extension)
	assert.Equal(t, "const a = 1", ok.Record.Content)

	bad := Load(ctx, ReadDirect, NewFailingHandle("pages/b.tsx", errors.New("disk on fire")))
	require.True(t, bad.Skipped())
	assert.Equal(t, models.SkipUnreadable, bad.Skip.Kind)
	assert.Equal(t, ".tsx", bad.Record.Extension)

	bin := Load(ctx, ReadDirect, NewMemoryHandle("pages/c.jsx", []byte{0x00, 0xff, 0x10}))
	require.True(t, bin.Skipped())
	assert.Equal(t, models.SkipUnparsable, bin.Skip.Kind)

	assert.Len(t, Records([]models.FileOutcome{ok, bad, bin}), 1)

	all := AllRecords([]models.FileOutcome{ok, bad, bin})
	require.Len(t, all, 3)
	assert.Equal(t, "pages/b.tsx", all[1].Path)
	assert.Empty(t, all[1].Content)
}

func TestCache_ReadsOnce(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	h := NewMemoryHandle("pages/a.tsx", []byte("a"))
	for i := 0; i < 3; i++ {
		data, err := c.Read(context.Background(), h)
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	}
	assert.Equal(t, 1, c.Reads())

	c.Purge()
	_, err = c.Read(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Reads())
}

func TestCache_DoesNotCacheFailures(t *testing.T) {
	c, err := NewCache(0)
	require.NoError(t, err)

	_, err = c.Read(context.Background(), NewFailingHandle("a.js", errors.New("boom")))
	assert.Error(t, err)
	assert.Equal(t, 0, c.Reads())
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`{
  "name": "shop",
  "dependencies": {"next": "^13.4.0", "react": "18.2.0", "weird": 5},
  "devDependencies": {"typescript": "~5.1.3"}
}`))
	require.NoError(t, err)
	assert.Equal(t, "shop", m.Name)
	assert.Equal(t, map[string]string{"next": "^13.4.0", "react": "18.2.0"}, m.Dependencies)
	assert.Equal(t, map[string]string{"typescript": "~5.1.3"}, m.DevDependencies)

	_, err = ParseManifest([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLoadManifest_PicksRootMost(t *testing.T) {
	hs := []Handle{
		NewMemoryHandle("packages/ui/package.json", []byte(`{"name": "ui"}`)),
		NewMemoryHandle("package.json", []byte(`{"name": "root"}`)),
	}
	m, err := LoadManifest(context.Background(), ReadDirect, hs)
	require.NoError(t, err)
	assert.Equal(t, "root", m.Name)

	m, err = LoadManifest(context.Background(), ReadDirect, nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}
