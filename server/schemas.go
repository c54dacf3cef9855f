package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema file names, used to pick the right schema per handler.
const (
	schemaPlanRequest    = "plan_request.json"
	schemaAcquireRequest = "acquire_request.json"
	schemaUtilityRequest = "utility_request.json"
	schemaGoalsRequest   = "goals_request.json"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// compileSchemas compiles every embedded request schema, keyed by bare
// file name.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	names, err := fs.Glob(schemaFS, "schemas/*.json")
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	out := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		data, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		key := path.Base(name)
		if err := compiler.AddResource(key, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", key, err)
		}
		s, err := compiler.Compile(key)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", key, err)
		}
		out[key] = s
	}
	return out, nil
}

// decodeValid checks raw JSON against the named schema, then
// unmarshals it into dst. The error text carries the violation, which
// goes straight into the 400 body.
func (s *Server) decodeValid(name string, raw []byte, dst any) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	if err := s.schemas[name].Validate(v); err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
