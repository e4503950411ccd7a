// Package xsd validates Facturae documents against the official schema
// when one is available locally. Structural parsing never depends on it;
// this is a strict opt-in check for callers that have downloaded the XSD
// published at facturae.gob.es.
package xsd

import (
	"fmt"
	"os"

	xsdvalidate "github.com/terminalstatic/go-xsd-validate"
)

// Validate checks xmlBytes against the XSD at schemaPath. Returns nil when
// the document is schema-valid. Line information from libxml2 is included
// in the error when available.
func Validate(xmlBytes []byte, schemaPath string) error {
	if _, err := os.Stat(schemaPath); err != nil {
		return fmt.Errorf("XSD schema not found at %q: %w", schemaPath, err)
	}

	if err := xsdvalidate.Init(); err != nil {
		return fmt.Errorf("initializing XSD validator: %w", err)
	}
	defer xsdvalidate.Cleanup()

	handler, err := xsdvalidate.NewXsdHandlerUrl(schemaPath, xsdvalidate.ParsErrDefault)
	if err != nil {
		return fmt.Errorf("loading XSD %q: %w", schemaPath, err)
	}
	defer handler.Free()

	if err := handler.ValidateMem(xmlBytes, xsdvalidate.ValidErrDefault); err != nil {
		switch e := err.(type) {
		case xsdvalidate.ValidationError:
			if len(e.Errors) > 0 {
				first := e.Errors[0]
				return fmt.Errorf("schema validation failed (line %d): %s", first.Line, first.Message)
			}
			return fmt.Errorf("schema validation failed: %v", e)
		default:
			return fmt.Errorf("schema validation error: %w", err)
		}
	}
	return nil
}
