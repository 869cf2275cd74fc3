// Package schema derives Anthropic tool input schemas from Go struct types.
package schema

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// Generate produces an anthropic.ToolInputSchemaParam from a Go struct type
// T, using the json and jsonschema struct tags.
func Generate[T any]() anthropic.ToolInputSchemaParam {
	var zero T
	reflected := jsonschema.Reflect(&zero)
	root := rootSchema(reflected)

	return anthropic.ToolInputSchemaParam{
		Properties: properties(root),
		Required:   root.Required,
	}
}

// rootSchema resolves the actual object schema. invopop/jsonschema wraps the
// reflected type in a $ref into $defs.
func rootSchema(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Ref != "" && s.Definitions != nil {
		for _, def := range s.Definitions {
			if def.Type == "object" {
				return def
			}
		}
	}
	return s
}

// properties converts the ordered property map into a plain map[string]any
// suitable for the Anthropic API.
func properties(s *jsonschema.Schema) map[string]any {
	if s.Properties == nil {
		return nil
	}
	props := make(map[string]any)
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		props[pair.Key] = property(pair.Value)
	}
	return props
}

// property converts a single property schema to a serializable map.
func property(s *jsonschema.Schema) map[string]any {
	m := make(map[string]any)

	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Default != nil {
		m["default"] = s.Default
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}

	// Pointer fields reflect as anyOf with a null branch; take the non-null type.
	if len(s.AnyOf) > 0 {
		for _, sub := range s.AnyOf {
			if sub.Type != "null" && sub.Type != "" {
				m["type"] = sub.Type
				break
			}
		}
	}

	if s.Properties != nil {
		m["type"] = "object"
		m["properties"] = properties(s)
		if len(s.Required) > 0 {
			m["required"] = s.Required
		}
	}

	if s.Items != nil {
		m["items"] = property(s.Items)
	}

	return m
}
