package model_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaview/facturaview/internal/model"
)

func TestParty_IsLegalEntity(t *testing.T) {
	legal := &model.Party{Type: model.PartyTypeLegal, Name: "Empresa S.L."}
	individual := &model.Party{Type: model.PartyTypeIndividual, Name: "Ana Pérez Gil"}

	assert.True(t, legal.IsLegalEntity())
	assert.False(t, individual.IsLegalEntity())

	var nilParty *model.Party
	assert.False(t, nilParty.IsLegalEntity())
}

func TestParsedDocument_JSONShape(t *testing.T) {
	taxID := "A12345678"
	doc := &model.ParsedDocument{
		SchemaVersion: "3.2.2",
		FileHeader: model.FileHeader{
			SchemaVersion: "3.2.2",
			Modality:      model.ModalitySingle,
			CurrencyCode:  "EUR",
		},
		Seller: &model.Party{
			Type:  model.PartyTypeLegal,
			TaxID: &taxID,
			Name:  "Empresa S.L.",
		},
		Invoices: []model.Invoice{
			{
				Number: "2024/001",
				Totals: &model.Totals{
					InvoiceTotal: decimal.RequireFromString("121.00"),
				},
			},
		},
	}

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "3.2.2", decoded["schema_version"])
	assert.Contains(t, decoded, "file_header")
	assert.Contains(t, decoded, "seller")
	assert.Contains(t, decoded, "invoices")
	assert.Contains(t, decoded, "is_signed")

	// Absent batch info is omitted, absent buyer stays an explicit null
	header := decoded["file_header"].(map[string]any)
	assert.NotContains(t, header, "batch")
	assert.Nil(t, decoded["buyer"])
}

func TestAddress_NilLeavesDistinguishAbsent(t *testing.T) {
	street := "Calle Mayor 1"
	addr := model.Address{
		Street:  &street,
		Country: "ESP",
	}

	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "Calle Mayor 1", decoded["street"])
	assert.Nil(t, decoded["post_code"])
	assert.Nil(t, decoded["town"])
}
