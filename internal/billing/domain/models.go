// Package domain contains the raw persistence rows the transformation engine
// consumes. The engine treats all of these as read-only inputs.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DocumentKind distinguishes sales invoices from credit notes.
type DocumentKind string

const (
	KindInvoice    DocumentKind = "INVOICE"
	KindCreditNote DocumentKind = "CREDIT_NOTE"
)

// Invoice is a raw invoice or credit-note header row.
type Invoice struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	Number     int64        `gorm:"not null;uniqueIndex:ux_invoices_number_kind"`
	Kind       DocumentKind `gorm:"type:text;not null;default:'INVOICE';uniqueIndex:ux_invoices_number_kind"`
	CustomerID snowflake.ID `gorm:"not null;index"`

	IssueDate time.Time  `gorm:"not null"`
	DueDate   *time.Time `gorm:""`

	TaxableAmount  float64 `gorm:"type:numeric(18,2);not null;default:0"`
	TaxAmount      float64 `gorm:"type:numeric(18,2);not null;default:0"`
	DiscountAmount float64 `gorm:"type:numeric(18,2);not null;default:0"`
	Total          float64 `gorm:"type:numeric(18,2);not null;default:0"`

	// Raw per-channel ledger balances. The payment resolver infers the
	// payment form and means from these.
	CashBalance     float64 `gorm:"type:numeric(18,2);not null;default:0"`
	CreditBalance   float64 `gorm:"type:numeric(18,2);not null;default:0"`
	CardBalance     float64 `gorm:"type:numeric(18,2);not null;default:0"`
	TransferBalance float64 `gorm:"type:numeric(18,2);not null;default:0"`
	CreditTermDays  int     `gorm:"not null;default:0"`

	// RefNumber links a credit note to the sales invoice it corrects.
	RefNumber *int64 `gorm:"index"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceDetail is one raw detail row. Immutable once fetched.
type InvoiceDetail struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	InvoiceID snowflake.ID `gorm:"not null;index"`

	ProductRef   string  `gorm:"type:text"`
	ProductCode  string  `gorm:"type:text"`
	Description  string  `gorm:"type:text"`
	ProductName  string  `gorm:"type:text"`
	Quantity     float64 `gorm:"type:numeric(18,4);not null"`
	UnitPrice    float64 `gorm:"type:numeric(18,2);not null"`
	TaxAmount    float64 `gorm:"type:numeric(18,2);not null;default:0"`
	DiscountAmount float64 `gorm:"type:numeric(18,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceDetail) TableName() string { return "invoice_details" }

// Customer is the counterparty row.
type Customer struct {
	ID snowflake.ID `gorm:"primaryKey"`

	// Identification may carry an embedded check digit after a dash
	// ("900123456-8") or be a bare number.
	Identification     string `gorm:"type:text;not null"`
	Name               string `gorm:"type:text;not null"`
	OrganizationTypeID int    `gorm:"not null;default:2"`
	DocumentTypeID     int    `gorm:"not null;default:3"`
	LocationCode       string `gorm:"type:text"`
	Address            string `gorm:"type:text"`
	Phone              string `gorm:"type:text"`
	Email              string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Company is the issuing entity. Same shape as Customer; loaded once per
// request and passed through explicitly, never held in shared state.
type Company struct {
	ID snowflake.ID `gorm:"primaryKey"`

	Identification     string `gorm:"type:text;not null"`
	Name               string `gorm:"type:text;not null"`
	OrganizationTypeID int    `gorm:"not null;default:1"`
	DocumentTypeID     int    `gorm:"not null;default:6"`
	LocationCode       string `gorm:"type:text"`
	Address            string `gorm:"type:text"`
	Phone              string `gorm:"type:text"`
	Email              string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

// Resolution is a numbering authorization: the range of document numbers the
// issuer may legally use, bounded in time.
type Resolution struct {
	ID snowflake.ID `gorm:"primaryKey"`

	ResolutionNumber string    `gorm:"type:text;not null"`
	Prefix           string    `gorm:"type:text"`
	RangeFrom        int64     `gorm:"not null"`
	RangeTo          int64     `gorm:"not null"`
	ValidFrom        time.Time `gorm:"not null"`
	ValidTo          time.Time `gorm:"not null"`
	TechnicalKey     string    `gorm:"type:text"`
	IsActive         bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Resolution) TableName() string { return "resolutions" }

// Covers reports whether the resolution authorizes the given document number
// at the given time.
func (r Resolution) Covers(number int64, at time.Time) bool {
	if !r.IsActive {
		return false
	}
	if number < r.RangeFrom || number > r.RangeTo {
		return false
	}
	return !at.Before(r.ValidFrom) && !at.After(r.ValidTo)
}
