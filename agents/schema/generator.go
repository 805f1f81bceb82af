/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema reflects Go response types into JSON schemas that are sent
// to oracles as structured-output contracts.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// reflector inlines every definition; model APIs do not resolve $ref.
func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
	}
}

// ReflectType returns the schema of T.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return reflector().Reflect(&zero)
}

// ReflectMap reflects T and returns the schema as a generic JSON object, the
// form SDK request parameters accept. The $schema and $id keys are removed.
func ReflectMap[T any]() (map[string]any, error) {
	raw, err := json.Marshal(ReflectType[T]())
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out, nil
}
