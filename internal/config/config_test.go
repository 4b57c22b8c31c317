// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logfacade/pkg/facade"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "logfacade.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		content           string
		expectedAppenders []string
		expectedSections  map[string]map[string]any
		expectedErr       string
	}{
		"full file": {
			content: `appenders: [console, remote]
global:
  debug: false
console:
  format: text
  color: true
remote:
  endpoint: https://collector.example.com/logs
  timeout: 2s
`,
			expectedAppenders: []string{"console", "remote"},
			expectedSections: map[string]map[string]any{
				"global":  {"debug": false},
				"console": {"format": "text", "color": true},
				"remote":  {"endpoint": "https://collector.example.com/logs", "timeout": "2s"},
			},
		},
		"empty file": {
			content:          "",
			expectedSections: map[string]map[string]any{},
		},
		"scalar section": {
			content:     "console: text\n",
			expectedErr: "error parsing",
		},
		"empty appender name": {
			content:     "appenders: [console, \"\"]\n",
			expectedErr: "empty name in appenders[1]",
		},
		"invalid yaml": {
			content:     "appenders: [console\n",
			expectedErr: "error parsing",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			file, err := LoadFile(writeFile(t, test.content))
			if test.expectedErr != "" {
				require.ErrorIs(t, err, ErrParsing)
				assert.Contains(t, err.Error(), test.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedAppenders, file.Appenders)
			assert.Equal(t, test.expectedSections, file.Sections)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply(t *testing.T) {
	t.Parallel()

	file, err := decode(strings.NewReader("console:\n  format: text\n"), "inline")
	require.NoError(t, err)

	config := facade.NewConfig()
	config.Set("console", "color", true)
	file.Apply(config)

	section, found := config.Section("console")
	require.True(t, found)
	assert.Equal(t, map[string]any{"format": "text", "color": true}, section)
}
