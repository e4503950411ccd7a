package xsd_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaview/facturaview/internal/xsd"
)

func TestValidate_MissingSchemaFile(t *testing.T) {
	err := xsd.Validate([]byte(`<fe:Facturae/>`), filepath.Join(t.TempDir(), "missing.xsd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XSD schema not found")
}
