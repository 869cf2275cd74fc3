package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name    string   `json:"name" jsonschema:"required,description=The name"`
	Count   *int     `json:"count,omitempty" jsonschema:"description=Optional count"`
	Tags    []string `json:"tags,omitempty" jsonschema:"description=Labels"`
	Verbose bool     `json:"verbose,omitempty"`
}

func TestGenerate(t *testing.T) {
	s := Generate[sampleInput]()

	props, ok := s.Properties.(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "name")
	require.Contains(t, props, "count")
	require.Contains(t, props, "tags")
	require.Contains(t, props, "verbose")

	name := props["name"].(map[string]any)
	assert.Equal(t, "string", name["type"])
	assert.Equal(t, "The name", name["description"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	items := tags["items"].(map[string]any)
	assert.Equal(t, "string", items["type"])

	assert.Equal(t, []string{"name"}, s.Required)
}

type nestedInput struct {
	Inner struct {
		Value string `json:"value" jsonschema:"required"`
	} `json:"inner" jsonschema:"required,description=Nested object"`
}

func TestGenerateNested(t *testing.T) {
	s := Generate[nestedInput]()

	rootProps, ok := s.Properties.(map[string]any)
	require.True(t, ok)
	require.Contains(t, rootProps, "inner")
	inner := rootProps["inner"].(map[string]any)
	assert.Equal(t, "object", inner["type"])

	props, ok := inner["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "value")
}
