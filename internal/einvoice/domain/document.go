// Package domain defines the assembled electronic document in the exact
// shape the tax-authority gateway expects, plus the canonical result of a
// submission. A Document is built once per transformation call and never
// mutated afterwards.
package domain

// Document kinds as used in gateway paths and audit records.
const (
	KindInvoice    = "invoice"
	KindCreditNote = "credit-note"
)

// Environment codes for type_document_id.
const (
	EnvironmentProduction = 1
	EnvironmentTest       = 2
)

// Catalog constants for invoice lines.
const (
	UnitMeasureEach            = 70
	ItemIdentificationStandard = 4
	TaxIDVAT                   = 1
)

// Correction concepts for credit notes.
const (
	CorrectionConceptPartialReturn = 1
	CorrectionConceptAnnulment     = 2
)

// Correction types: a credit note issued within the reference window points
// at the original document; later ones substitute it.
const (
	CorrectionTypeReferenced   = "referenced"
	CorrectionTypeSubstitution = "substitution"
)

// Document is the complete, schema-shaped payload submitted to the gateway.
type Document struct {
	Number               int64 `json:"number"`
	TypeDocumentID       int   `json:"type_document_id"`
	IdentificationNumber int64 `json:"identification_number"`
	ResolutionID         int64 `json:"resolution_id"`
	Sync                 bool  `json:"sync"`

	Company  Party         `json:"company"`
	Customer CustomerParty `json:"customer"`

	TaxTotals           []TaxTotal     `json:"tax_totals"`
	LegalMonetaryTotals MonetaryTotals `json:"legal_monetary_totals"`
	InvoiceLines        []Line         `json:"invoice_lines"`
	PaymentForms        []PaymentForm  `json:"payment_forms"`

	// Credit notes only.
	BillingReference    *BillingReference    `json:"billing_reference,omitempty"`
	DiscrepancyResponse *DiscrepancyResponse `json:"discrepancy_response,omitempty"`
}

// Party is the issuing company identity block.
type Party struct {
	IdentificationNumber int64  `json:"identification_number"`
	Name                 string `json:"name"`
	TypeOrganizationID   int    `json:"type_organization_id"`
	TypeDocumentID       int    `json:"type_document_id"`
	IDLocation           string `json:"id_location"`
	Address              string `json:"address"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
}

// CustomerParty is the counterparty block; unlike the company it carries an
// explicit check digit.
type CustomerParty struct {
	IdentificationNumber int64  `json:"identification_number"`
	DV                   int    `json:"dv"`
	Name                 string `json:"name"`
	TypeOrganizationID   int    `json:"type_organization_id"`
	TypeDocumentID       int    `json:"type_document_id"`
	IDLocation           string `json:"id_location"`
	Address              string `json:"address"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
}

// TaxTotal is one tax breakdown entry, at line or header level.
type TaxTotal struct {
	TaxID         int     `json:"tax_id"`
	TaxAmount     float64 `json:"tax_amount"`
	TaxableAmount float64 `json:"taxable_amount"`
	Percent       float64 `json:"percent"`
}

// MonetaryTotals is the header-level totals block. The gateway rejects any
// document where these disagree with the line sums.
type MonetaryTotals struct {
	LineExtensionAmount  float64 `json:"line_extension_amount"`
	TaxExclusiveAmount   float64 `json:"tax_exclusive_amount"`
	TaxInclusiveAmount   float64 `json:"tax_inclusive_amount"`
	PayableAmount        float64 `json:"payable_amount"`
	AllowanceTotalAmount float64 `json:"allowance_total_amount"`
	ChargeTotalAmount    float64 `json:"charge_total_amount"`
}

// Line is one normalized invoice line with its own tax breakdown.
type Line struct {
	UnitMeasureID            int        `json:"unit_measure_id"`
	InvoicedQuantity         float64    `json:"invoiced_quantity"`
	LineExtensionAmount      float64    `json:"line_extension_amount"`
	Description              string     `json:"description"`
	PriceAmount              float64    `json:"price_amount"`
	Code                     string     `json:"code"`
	TypeItemIdentificationID int        `json:"type_item_identification_id"`
	BaseQuantity             float64    `json:"base_quantity"`
	FreeOfChargeIndicator    bool       `json:"free_of_charge_indicator"`
	TaxTotals                []TaxTotal `json:"tax_totals"`
}

// PaymentForm is the resolved payment form/means entry.
type PaymentForm struct {
	PaymentFormID   int    `json:"payment_form_id"`
	PaymentMethodID int    `json:"payment_method_id"`
	PaymentDueDate  string `json:"payment_due_date"`
	DurationMeasure int    `json:"duration_measure"`
}

// BillingReference links a credit note to the accepted invoice it corrects.
type BillingReference struct {
	Number    string `json:"number"`
	UUID      string `json:"uuid"`
	IssueDate string `json:"issue_date"`
}

// DiscrepancyResponse states why the credit note exists.
type DiscrepancyResponse struct {
	CorrectionConceptID int    `json:"correction_concept_id"`
	CorrectionType      string `json:"correction_type"`
}
