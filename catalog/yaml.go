package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileSource serves schema definitions parsed from a YAML catalog document:
//
//	schemas:
//	  - name: user
//	    narrative: A user profile.
//	    fields:
//	      - name: name
//	        type: string
//	        description: Full name.
//	        required: true
//	      - name: email
//	        type: optional<string>
//	        description: Contact address.
type FileSource struct {
	defs map[string]*Definition
}

type catalogDoc struct {
	Schemas []*Definition `yaml:"schemas"`
}

// LoadFile reads and parses a YAML catalog file.
func LoadFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML catalog document.
func Parse(data []byte) (*FileSource, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	defs := make(map[string]*Definition, len(doc.Schemas))
	for _, d := range doc.Schemas {
		if d.Name == "" {
			return nil, fmt.Errorf("parse catalog: schema with empty name")
		}
		if _, exists := defs[d.Name]; exists {
			return nil, fmt.Errorf("parse catalog: schema %q declared twice", d.Name)
		}
		defs[d.Name] = d
	}
	return &FileSource{defs: defs}, nil
}

// Definition returns the named definition.
func (s *FileSource) Definition(_ context.Context, name string) (*Definition, error) {
	d, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("catalog schema %q not found", name)
	}
	return d, nil
}

// Names lists the declared schema names in sorted order.
func (s *FileSource) Names() []string {
	names := make([]string, 0, len(s.defs))
	for n := range s.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
