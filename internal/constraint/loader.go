package constraint

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Loader produces DomainConstraints values from specification sources.
// Stateless and reentrant: independent loads may run concurrently.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader creates a loader with the embedded normalized-form schema
// compiled once.
func NewLoader() *Loader {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).
		LookupPath(cue.ParsePath("#DomainConstraints"))
	return &Loader{ctx: ctx, schema: schema}
}

// LoadNormalized decodes the normalized JSON form of a constraint document.
// The input is unified with the embedded schema before decoding; any
// mismatch fails with a MALFORMED_SPECIFICATION error and no partial value.
//
// This is the authoritative path: it is structurally lossless against the
// normalized form.
func (l *Loader) LoadNormalized(data []byte) (*DomainConstraints, error) {
	if err := l.schema.Err(); err != nil {
		return nil, NewMalformedError("constraint schema failed to compile", err)
	}

	expr, err := cuejson.Extract("constraints.json", data)
	if err != nil {
		return nil, NewMalformedError("normalized specification is not valid JSON", err)
	}

	val := l.ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return nil, NewMalformedError("normalized specification could not be built", err)
	}

	unified := l.schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, NewMalformedError("normalized specification does not match the expected shape", err)
	}

	var dc DomainConstraints
	if err := unified.Decode(&dc); err != nil {
		return nil, NewMalformedError("normalized specification could not be decoded", err)
	}

	dc.normalize()
	return &dc, nil
}

// LoadNormalizedYAML decodes a YAML rendition of the normalized form.
// The document is converted to JSON and validated through the same schema
// as LoadNormalized.
func (l *Loader) LoadNormalizedYAML(data []byte) (*DomainConstraints, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewMalformedError("normalized specification is not valid YAML", err)
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, NewMalformedError("normalized YAML specification could not be converted", err)
	}

	return l.LoadNormalized(jsonData)
}

// LoadNormalizedFile reads and decodes a normalized constraint document,
// selecting YAML or JSON by file extension. Read failures surface as
// IO_FAILURE; decode failures as MALFORMED_SPECIFICATION.
func (l *Loader) LoadNormalizedFile(path string) (*DomainConstraints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError("failed to read specification file", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.LoadNormalizedYAML(data)
	default:
		return l.LoadNormalized(data)
	}
}
