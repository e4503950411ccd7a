package server

import (
	"github.com/facturaview/facturaview/internal/model"
)

// ParseResponse is the response for the parse endpoint
type ParseResponse struct {
	Document     *model.ParsedDocument `json:"document"`
	IsBatch      bool                  `json:"is_batch"`
	InvoiceCount int                   `json:"invoice_count"`
}

// ErrorResponse is the standard error envelope. Message carries the
// localized friendly text; Kind the classified error code. Technical
// details are logged server-side, never returned.
type ErrorResponse struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	Size     int    `json:"size"`
	IsXML    bool   `json:"is_xml"`
	IsSigned bool   `json:"is_signed"`
	Version  string `json:"version,omitempty"`
}
