package source

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/rg0now/next-migration-survey/pkg/models"
)

// ManifestName is the package manifest file name.
const ManifestName = "package.json"

// ParseManifest decodes package.json. Dependency entries whose version is not
// a string are dropped rather than failing the whole manifest.
func ParseManifest(data []byte) (*models.Manifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m := &models.Manifest{}
	if name, ok := raw["name"]; ok {
		_ = json.Unmarshal(name, &m.Name)
	}
	m.Dependencies = stringMap(raw["dependencies"])
	m.DevDependencies = stringMap(raw["devDependencies"])
	return m, nil
}

func stringMap(msg json.RawMessage) map[string]string {
	if len(msg) == 0 {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(msg, &fields); err != nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// FindManifest returns the root-most package.json handle, or nil.
func FindManifest(handles []Handle) Handle {
	var best Handle
	bestDepth := 0
	for _, h := range handles {
		p := h.Path()
		if path.Base(p) != ManifestName {
			continue
		}
		depth := strings.Count(p, "/")
		if best == nil || depth < bestDepth {
			best, bestDepth = h, depth
		}
	}
	return best
}

// LoadManifest finds and parses the project manifest. A missing manifest
// returns (nil, nil).
func LoadManifest(ctx context.Context, r Reader, handles []Handle) (*models.Manifest, error) {
	h := FindManifest(handles)
	if h == nil {
		return nil, nil
	}
	data, err := r.Read(ctx, h)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}
