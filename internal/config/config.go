// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the YAML file holding the appenders to enable and their
// configuration sections.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/logfacade/pkg/facade"
)

const appendersField = "appenders"

var (
	// ErrParsing reports failures that occur while decoding configuration files.
	ErrParsing = errors.New("error parsing")
)

// File is the decoded content of a configuration file.
//
//	appenders: [console, remote]
//	global:
//	  debug: false
//	remote:
//	  endpoint: https://collector.example.com/logs
type File struct {
	// Appenders lists the names of the appenders to register, in order.
	Appenders []string `yaml:"appenders,omitempty"`
	// Sections holds every other top level key, one section per appender name.
	Sections map[string]map[string]any `yaml:",inline"`
}

// LoadFile parses the configuration file at path. An empty file yields an empty File.
func LoadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decode(file, path)
}

func decode(reader io.Reader, path string) (*File, error) {
	decoder := yaml.NewDecoder(reader)

	config := new(File)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	for index, name := range config.Appenders {
		if name == "" {
			return nil, fmt.Errorf("%w %q: empty name in %s[%d]", ErrParsing, path, appendersField, index)
		}
	}

	if config.Sections == nil {
		config.Sections = make(map[string]map[string]any)
	}
	return config, nil
}

// Apply merges the sections of the file into config.
func (f *File) Apply(config *facade.Config) {
	config.Merge(f.Sections)
}
