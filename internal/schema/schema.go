// Package schema validates option and metadata bags against JSON schemas,
// reporting every violation instead of stopping at the first.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kanmd/kanmd/internal/clierr"
)

// MustCompile compiles a schema from its JSON source. Panics on error
// since all schemas are package constants.
func MustCompile(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// Validate checks a value against a compiled schema. The value is passed
// through a JSON round-trip first so YAML-decoded maps and time values are
// seen in their wire form. On failure the returned error lists every
// offending property path and constraint.
func Validate(s *jsonschema.Schema, subject string, v any) error {
	plain, err := jsonify(v)
	if err != nil {
		return clierr.Newf(clierr.SchemaValidation, "%s: not serializable: %v", subject, err)
	}

	if err := s.Validate(plain); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return clierr.Newf(clierr.SchemaValidation, "%s failed validation:\n  %s",
				subject, strings.Join(flatten(ve), "\n  ")).
				WithDetails(map[string]any{"violations": flatten(ve)})
		}
		return clierr.Newf(clierr.SchemaValidation, "%s failed validation: %v", subject, err)
	}

	return nil
}

func jsonify(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

// flatten collects leaf validation errors as "location: message" strings,
// deduplicated and sorted for deterministic output.
func flatten(ve *jsonschema.ValidationError) []string {
	seen := make(map[string]bool)
	var out []string

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msg := loc + ": " + e.Message
			if !seen[msg] {
				seen[msg] = true
				out = append(out, msg)
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	sort.Strings(out)
	return out
}
