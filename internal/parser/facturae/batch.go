package facturae

import (
	"github.com/facturaview/facturaview/internal/model"
)

// IsBatch reports whether the document is a lote. Multiple invoices always
// mean a batch; a single invoice under Modality "L" is still treated as a
// batch, matching the Facturae lote modality flag.
func IsBatch(doc *model.ParsedDocument) bool {
	if doc == nil {
		return false
	}
	if len(doc.Invoices) > 1 {
		return true
	}
	return doc.FileHeader.Modality == model.ModalityBatch
}

// Selection is the navigation state over the invoices of one document: a
// bounds-clamped index. The zero value selects the first invoice.
type Selection struct {
	doc   *model.ParsedDocument
	index int
}

// NewSelection creates a selection positioned on the first invoice
func NewSelection(doc *model.ParsedDocument) *Selection {
	return &Selection{doc: doc}
}

// Select moves to invoice i, clamped to [0, len-1], and returns the
// resulting index.
func (s *Selection) Select(i int) int {
	max := len(s.doc.Invoices) - 1
	if i < 0 {
		i = 0
	}
	if i > max {
		i = max
	}
	s.index = i
	return s.index
}

// Next advances to the next invoice, clamped at the end
func (s *Selection) Next() int {
	return s.Select(s.index + 1)
}

// Prev moves to the previous invoice, clamped at the start
func (s *Selection) Prev() int {
	return s.Select(s.index - 1)
}

// Index returns the current invoice index
func (s *Selection) Index() int {
	return s.index
}

// Current returns the currently selected invoice
func (s *Selection) Current() *model.Invoice {
	return &s.doc.Invoices[s.index]
}

// Count returns the number of invoices in the document
func (s *Selection) Count() int {
	return len(s.doc.Invoices)
}

// ClampIndex clamps an invoice index against a document without keeping
// navigation state, for one-shot consumers like the exporters.
func ClampIndex(doc *model.ParsedDocument, i int) int {
	if i < 0 {
		return 0
	}
	if max := len(doc.Invoices) - 1; i > max {
		return max
	}
	return i
}
