package recon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Loader resolves spec references against the filesystem and a catalog.
type Loader struct {
	catalog *Catalog
	logger  *zap.Logger
}

// NewLoader returns a loader. A nil catalog means the built-in catalog only.
func NewLoader(catalog *Catalog, logger *zap.Logger) *Loader {
	if catalog == nil {
		catalog = NewCatalog("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{catalog: catalog, logger: logger}
}

// Load resolves ref to a spec. ref is tried as a file path first, then as a
// catalog name. With sloppy set, fast low-quality parameters replace the
// spec's own before it is returned.
func (l *Loader) Load(ref string, sloppy bool) (*Spec, error) {
	data, source, err := l.read(ref)
	if err != nil {
		return nil, err
	}
	spec, err := ParseSpec(data, source)
	if err != nil {
		return nil, err
	}
	if sloppy {
		l.logger.Warn("forcing reconstruction to use unrealistic parameters",
			zap.String("spec", source))
		spec = MakeSloppy(spec)
	}
	return spec, nil
}

func (l *Loader) read(ref string) ([]byte, string, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, "", fmt.Errorf("read spec %s: %w", ref, err)
		}
		return data, ref, nil
	}
	data, ok, err := l.catalog.Open(ref)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", &SpecNotFoundError{Ref: ref, Catalog: l.catalog.Names()}
	}
	return data, ref, nil
}

// ParseSpec decodes a spec document. source is recorded on the result and
// used in error messages.
func ParseSpec(data []byte, source string) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		perr := &SpecParseError{Source: source, Err: err}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			perr.Offset = syntaxErr.Offset
		}
		return nil, perr
	}
	spec.Source = source
	return &spec, nil
}
