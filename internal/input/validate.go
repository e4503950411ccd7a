// Package input implements the caller-side checks applied to uploaded
// files before the parser sees them. The parser itself tolerates arbitrary
// content; these checks exist to reject obvious non-invoices early with a
// clear message.
package input

import (
	"fmt"
	"strings"
)

// MaxFileSize is the upload size cap in bytes
const MaxFileSize = 10 * 1024 * 1024

// AllowedExtensions are the accepted upload extensions. .xsig files are
// XAdES-signed Facturae documents.
var AllowedExtensions = []string{".xml", ".xsig"}

// ValidationError describes a rejected file
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid file %s: %s", e.Field, e.Message)
}

// ValidateExtension checks the file name against the accepted extensions
func ValidateExtension(fileName string) error {
	if fileName == "" {
		return &ValidationError{Field: "name", Message: "missing file name"}
	}
	lower := strings.ToLower(fileName)
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return &ValidationError{Field: "name", Message: "unsupported format, expected .xml or .xsig"}
}

// ValidateSize checks the file size against the 10 MB cap
func ValidateSize(size int64) error {
	if size < 0 {
		return &ValidationError{Field: "size", Message: "invalid file size"}
	}
	if size > MaxFileSize {
		return &ValidationError{Field: "size", Message: "file too large, maximum is 10 MB"}
	}
	return nil
}

// ValidateFile runs the extension and size checks together
func ValidateFile(fileName string, size int64) error {
	if err := ValidateExtension(fileName); err != nil {
		return err
	}
	return ValidateSize(size)
}
