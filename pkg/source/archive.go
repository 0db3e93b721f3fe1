package source

import (
	"fmt"

	"golang.org/x/tools/txtar"
)

// FromArchive loads a project packed as a txtar archive. Files keep the
// archive order. An archive naming the same file twice is rejected.
func FromArchive(path string) ([]Handle, error) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse archive: %w", err)
	}
	handles, err := fromTxtar(ar)
	if err != nil {
		return nil, fmt.Errorf("invalid archive %s: %w", path, err)
	}
	return handles, nil
}

// ParseArchive loads a project from txtar-formatted bytes.
func ParseArchive(data []byte) ([]Handle, error) {
	return fromTxtar(txtar.Parse(data))
}

func fromTxtar(ar *txtar.Archive) ([]Handle, error) {
	seen := make(map[string]bool, len(ar.Files))
	handles := make([]Handle, 0, len(ar.Files))
	for _, f := range ar.Files {
		h := NewMemoryHandle(f.Name, f.Data)
		if seen[h.Path()] {
			return nil, fmt.Errorf("duplicate file %s", h.Path())
		}
		seen[h.Path()] = true
		handles = append(handles, h)
	}
	return handles, nil
}
