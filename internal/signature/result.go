package signature

import "time"

// Result mirrors the JSON contract of the external XAdES validation
// service. Valid is tri-state: true, false, or nil when verification was
// not possible (unsigned document, service unreachable, timeout). The
// contract is treated as opaque; nothing here inspects signature content.
type Result struct {
	Valid             *bool            `json:"valid"`
	SignatureType     string           `json:"signature_type,omitempty"`
	Signer            *SignerInfo      `json:"signer,omitempty"`
	Certificate       *CertificateInfo `json:"certificate,omitempty"`
	RevocationChecked bool             `json:"revocation_checked,omitempty"`
	Revoked           *bool            `json:"revoked,omitempty"`
	Timestamp         *time.Time       `json:"timestamp,omitempty"`
	Errors            []string         `json:"errors,omitempty"`
	Warnings          []string         `json:"warnings,omitempty"`
}

// SignerInfo identifies the certificate subject
type SignerInfo struct {
	Name         string `json:"name,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// CertificateInfo summarizes the signing certificate
type CertificateInfo struct {
	Issuer    string     `json:"issuer,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Serial    string     `json:"serial,omitempty"`
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsExpired bool       `json:"is_expired,omitempty"`
}

// IsVerified reports whether the service reached a definitive verdict
func (r *Result) IsVerified() bool {
	return r != nil && r.Valid != nil
}

// Unverifiable builds the result reported when the service could not be
// consulted: the signature status stays unknown rather than failing the
// whole view.
func Unverifiable(reason string) *Result {
	return &Result{
		Valid:  nil,
		Errors: []string{"connection error: " + reason},
	}
}
