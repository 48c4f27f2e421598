package recon

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed catalog/*.json
var builtinSpecs embed.FS

// Catalog is the set of named specs: the embedded built-ins plus an optional
// directory of <name>.json files, which take precedence.
type Catalog struct {
	dir string
}

// NewCatalog returns a catalog. dir may be empty.
func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Names returns every catalog name, sorted.
func (c *Catalog) Names() []string {
	set := map[string]struct{}{}
	if entries, err := fs.ReadDir(builtinSpecs, "catalog"); err == nil {
		for _, e := range entries {
			if name, ok := specName(e); ok {
				set[name] = struct{}{}
			}
		}
	}
	if c.dir != "" {
		if entries, err := os.ReadDir(c.dir); err == nil {
			for _, e := range entries {
				if name, ok := specName(e); ok {
					set[name] = struct{}{}
				}
			}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open returns the document registered under name.
func (c *Catalog) Open(name string) ([]byte, bool, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, false, nil
	}
	if c.dir != "" {
		data, err := os.ReadFile(filepath.Join(c.dir, name+".json"))
		switch {
		case err == nil:
			return data, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, false, fmt.Errorf("read catalog spec %s: %w", name, err)
		}
	}
	data, err := builtinSpecs.ReadFile("catalog/" + name + ".json")
	if err != nil {
		return nil, false, nil
	}
	return data, true, nil
}

func specName(e fs.DirEntry) (string, bool) {
	if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
		return "", false
	}
	return strings.TrimSuffix(e.Name(), ".json"), true
}
