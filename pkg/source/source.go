// Package source turns a project on disk, in a txtar archive or in memory
// into an ordered list of file handles, and reads them into file records.
package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

// Handle is a file path plus a way to read its content.
type Handle interface {
	Path() string
	Read(ctx context.Context) ([]byte, error)
}

// FileHandle reads a file from disk.
type FileHandle struct {
	rel string
	abs string
}

// NewFileHandle creates a handle for abs, reported under the project-relative
// path rel.
func NewFileHandle(rel, abs string) FileHandle {
	return FileHandle{rel: normalizePath(rel), abs: abs}
}

// Path returns the project-relative path with forward slashes.
func (h FileHandle) Path() string { return h.rel }

// Read reads the whole file.
func (h FileHandle) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(h.abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", h.rel, err)
	}
	return data, nil
}

// MemoryHandle serves fixed content, or a fixed error.
type MemoryHandle struct {
	path string
	data []byte
	err  error
}

// NewMemoryHandle creates a handle over data.
func NewMemoryHandle(p string, data []byte) MemoryHandle {
	return MemoryHandle{path: normalizePath(p), data: data}
}

// NewFailingHandle creates a handle whose reads always fail with err.
func NewFailingHandle(p string, err error) MemoryHandle {
	return MemoryHandle{path: normalizePath(p), err: err}
}

// Path returns the handle path.
func (h MemoryHandle) Path() string { return h.path }

// Read returns the content or the configured error.
func (h MemoryHandle) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return h.data, nil
}

// Reader reads handle content. Cache implements it; ReadDirect is the
// uncached form.
type Reader interface {
	Read(ctx context.Context, h Handle) ([]byte, error)
}

type directReader struct{}

func (directReader) Read(ctx context.Context, h Handle) ([]byte, error) {
	return h.Read(ctx)
}

// ReadDirect reads every handle without caching.
var ReadDirect Reader = directReader{}

// Load reads one handle into a file outcome. Read failures and content that
// is not text become skip reasons instead of errors.
func Load(ctx context.Context, r Reader, h Handle) models.FileOutcome {
	rec := models.FileRecord{
		Path:      h.Path(),
		Extension: Ext(h.Path()),
	}

	data, err := r.Read(ctx, h)
	if err != nil {
		return models.FileOutcome{
			Record: rec,
			Skip:   &models.SkipReason{Kind: models.SkipUnreadable, Message: err.Error()},
		}
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return models.FileOutcome{
			Record: rec,
			Skip:   &models.SkipReason{Kind: models.SkipUnparsable, Message: "content is not UTF-8 text"},
		}
	}

	rec.Content = string(data)
	return models.FileOutcome{Record: rec}
}

// Records returns the usable records of a set of outcomes.
func Records(outcomes []models.FileOutcome) []models.FileRecord {
	recs := make([]models.FileRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Skipped() {
			recs = append(recs, o.Record)
		}
	}
	return recs
}

// AllRecords returns the record of every outcome. Skipped records keep their
// path and extension but carry no content.
func AllRecords(outcomes []models.FileOutcome) []models.FileRecord {
	recs := make([]models.FileRecord, 0, len(outcomes))
	for _, o := range outcomes {
		recs = append(recs, o.Record)
	}
	return recs
}

// Ext returns the lowercase extension of p, including the dot.
func Ext(p string) string {
	return strings.ToLower(path.Ext(normalizePath(p)))
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
