// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	config := NewConfig()
	_, found := config.Section("console")
	assert.False(t, found)

	config.Set("console", "format", "text")
	config.Merge(map[string]map[string]any{
		"console": {"color": true},
		"global":  {"debug": false},
	})

	section, found := config.Section("console")
	require.True(t, found)
	assert.Equal(t, map[string]any{"format": "text", "color": true}, section)

	section["format"] = "json"
	value, found := config.Value("console", "format")
	require.True(t, found)
	assert.Equal(t, "text", value, "returned sections must be copies")

	config.SetSection("console", nil)
	section, found = config.Section("console")
	require.True(t, found)
	assert.Empty(t, section)

	assert.False(t, config.Enabled(GlobalSection, DebugKey))
	config.Set(GlobalSection, DebugKey, true)
	assert.True(t, config.Enabled(GlobalSection, DebugKey))
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	var nilPointer *int
	one := 1

	testCases := map[string]struct {
		value    any
		expected bool
	}{
		"nil":          {value: nil, expected: false},
		"false":        {value: false, expected: false},
		"true":         {value: true, expected: true},
		"empty string": {value: "", expected: false},
		"string":       {value: "x", expected: true},
		"zero int":     {value: 0, expected: false},
		"int":          {value: 3, expected: true},
		"zero uint":    {value: uint(0), expected: false},
		"zero float":   {value: 0.0, expected: false},
		"NaN":          {value: math.NaN(), expected: false},
		"float":        {value: 0.5, expected: true},
		"empty slice":  {value: []string{}, expected: false},
		"empty map":    {value: map[string]any{}, expected: false},
		"nil pointer":  {value: nilPointer, expected: false},
		"pointer":      {value: &one, expected: true},
		"struct":       {value: struct{}{}, expected: true},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expected, truthy(test.value))
		})
	}
}

func TestConfigOpt(t *testing.T) {
	t.Parallel()

	config := NewConfig()
	config.Set("console", "format", "text")
	config.Set("console", "color", false)
	config.Set("console", "width", 80)

	base := NewBase("console")
	assert.Equal(t, "text", base.ConfigOpt("format", config, "json"))
	assert.Equal(t, "fallback", base.ConfigOpt("color", config, "fallback"), "falsy values use the default")
	assert.Equal(t, "json", base.ConfigOpt("missing", config, "json"))
	assert.Equal(t, "json", base.ConfigOpt("format", nil, "json"))

	other := NewBase("remote")
	assert.Equal(t, "json", other.ConfigOpt("format", config, "json"), "sections are namespaced by appender name")

	assert.Equal(t, 80, Opt(&base, "width", config, 120))
	assert.Equal(t, "json", Opt(&base, "width", config, "json"), "mismatching types use the default")
	assert.Equal(t, "text", Opt(&base, "format", config, "json"))
}

func TestBase(t *testing.T) {
	t.Parallel()

	base := new(Base)
	assert.Equal(t, DefaultAppenderName, base.Name())
	require.NoError(t, base.Log(t.Context(), Event{}))

	base.SetName("renamed")
	assert.Equal(t, "renamed", base.Name())

	var appender Appender = base
	assert.Equal(t, "renamed", appender.Name())
}
