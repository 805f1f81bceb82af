/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type binding interface {
	value() (string, error)
}

type unboundBinding struct {
	name string
}

func (u *unboundBinding) value() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", u.name)
}

type textBinding struct {
	val string
}

func (t *textBinding) value() (string, error) {
	return t.val, nil
}

type jsonBinding struct {
	data any
}

func (j *jsonBinding) value() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j.data); err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

type yamlBinding struct {
	data any
}

func (y *yamlBinding) value() (string, error) {
	b, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(b), nil
}

// existsAndUnbound reports an error unless name is a placeholder that has not been bound yet.
func existsAndUnbound(bindings map[string]binding, name string) error {
	b, exists := bindings[name]
	if !exists {
		return fmt.Errorf("binding %q not found in template", name)
	}
	if _, unbound := b.(*unboundBinding); !unbound {
		return fmt.Errorf("binding %q already bound", name)
	}
	return nil
}
