package recon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// PlotReportsParam is the parameter builders consult to decide whether to
// emit report plots.
const PlotReportsParam = "plot_reports"

// Parameters is the free-form option mapping of a node. Paths use gjson
// syntax ("tckgen.select"). Decoded numbers are kept as json.Number so their
// text survives every copy.
type Parameters map[string]any

// UnmarshalJSON implements json.Unmarshaler.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := decodeNumbers(data, &m); err != nil {
		return err
	}
	*p = m
	return nil
}

// MarshalYAML implements yaml.Marshaler, turning json.Number values back into
// plain numbers.
func (p Parameters) MarshalYAML() (any, error) {
	if p == nil {
		return nil, nil
	}
	return plainNumbers(map[string]any(p)), nil
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func plainNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plainNumbers(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainNumbers(e)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

func (p Parameters) raw() []byte {
	if len(p) == 0 {
		return []byte("{}")
	}
	data, err := json.Marshal(p)
	if err != nil {
		// Parameters only ever hold decoded JSON values.
		panic(fmt.Sprintf("recon: parameters not serialisable: %v", err))
	}
	return data
}

// Clone returns a deep copy. A nil mapping clones to an empty one.
func (p Parameters) Clone() Parameters {
	out := Parameters{}
	if len(p) == 0 {
		return out
	}
	if err := decodeNumbers(p.raw(), &out); err != nil {
		panic(fmt.Sprintf("recon: parameters not deserialisable: %v", err))
	}
	return out
}

// Get looks up a value by path.
func (p Parameters) Get(path string) gjson.Result {
	return gjson.GetBytes(p.raw(), path)
}

// With returns a copy of p with path set to value; p is left untouched.
func (p Parameters) With(path string, value any) (Parameters, error) {
	data, err := sjson.SetBytes(p.raw(), path, value)
	if err != nil {
		return nil, fmt.Errorf("set parameter %q: %w", path, err)
	}
	out := Parameters{}
	if err := decodeNumbers(data, &out); err != nil {
		return nil, fmt.Errorf("set parameter %q: %w", path, err)
	}
	return out, nil
}

// PlotReports reports whether report plots are enabled (default true).
func (p Parameters) PlotReports() bool {
	r := p.Get(PlotReportsParam)
	if !r.Exists() {
		return true
	}
	return r.Bool()
}
