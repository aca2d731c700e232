// Package catalog provides the YAML-backed test catalog. The catalog is read
// once at start-up and is immutable afterwards.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"labflow/internal/core/domain/model/result"
	"labflow/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

type rangeDocument struct {
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
	AgeGroup string   `yaml:"ageGroup"`
	Gender   string   `yaml:"gender"`
	Text     string   `yaml:"text"`
}

type testDocument struct {
	ID     string          `yaml:"id"`
	Code   string          `yaml:"code"`
	Name   string          `yaml:"name"`
	Unit   string          `yaml:"unit"`
	Ranges []rangeDocument `yaml:"ranges"`
}

type catalogDocument struct {
	Tests []testDocument `yaml:"tests"`
}

// YAMLCatalog implements ports.TestCatalog over definitions parsed from YAML.
type YAMLCatalog struct {
	definitions map[string]result.TestDefinition
}

// Default returns the catalog compiled into the binary.
func Default() (*YAMLCatalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Load reads a catalog file.
func Load(path string) (*YAMLCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a catalog document. Unknown fields, duplicate ids and ranges
// without both bounds are rejected.
func Parse(r io.Reader) (*YAMLCatalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc catalogDocument
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.NewValueIsInvalidErrorWithCause("test catalog", err)
	}

	c := &YAMLCatalog{definitions: make(map[string]result.TestDefinition, len(doc.Tests))}
	for _, t := range doc.Tests {
		if _, dup := c.definitions[t.ID]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("test catalog", fmt.Errorf("duplicate test id %q", t.ID))
		}

		ranges := make([]result.ReferenceRange, 0, len(t.Ranges))
		for i, rd := range t.Ranges {
			if rd.Min == nil || rd.Max == nil {
				return nil, errs.NewValueIsRequiredErrorWithCause("reference range bounds",
					fmt.Errorf("range %d of %s", i, t.ID))
			}
			rr, err := result.NewReferenceRange(*rd.Min, *rd.Max, rd.AgeGroup, rd.Gender, rd.Text)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, rr)
		}

		def, err := result.NewTestDefinition(t.ID, t.Code, t.Name, t.Unit, ranges)
		if err != nil {
			return nil, err
		}
		c.definitions[def.ID] = def
	}
	return c, nil
}

// Get implements ports.TestCatalog.
func (c *YAMLCatalog) Get(_ context.Context, id string) (result.TestDefinition, error) {
	def, ok := c.definitions[id]
	if !ok {
		return result.TestDefinition{}, errs.NewObjectNotFoundError("test definition", id)
	}
	return def, nil
}

// Len returns the number of definitions.
func (c *YAMLCatalog) Len() int {
	return len(c.definitions)
}
