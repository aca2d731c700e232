// Package api holds the OpenAPI document of the HTTP interface. The document
// is embedded in the binary, served by the Swagger UI and used to validate
// incoming requests.
package api

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var rawDocument []byte

type document struct{}

func (document) ReadDoc() string {
	return string(rawDocument)
}

func init() {
	swag.Register(swag.Name, document{})
}

// Document returns the raw OpenAPI document.
func Document() []byte {
	return rawDocument
}

// Load parses and validates the OpenAPI document.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}
