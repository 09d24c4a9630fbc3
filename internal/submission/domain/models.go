// Package domain contains the submission audit records: one row per gateway
// round trip, carrying the untouched raw response for later dispute handling.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the canonical outcome of a gateway round trip.
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusError    Status = "ERROR"
)

// Record is one submission attempt. Created only after a gateway round trip;
// never updated afterwards.
type Record struct {
	ID snowflake.ID `gorm:"primaryKey"`

	DocumentKind   string `gorm:"type:text;not null;index:ix_submissions_doc"`
	DocumentNumber int64  `gorm:"not null;index:ix_submissions_doc"`

	Status     Status `gorm:"type:text;not null"`
	StatusCode string `gorm:"type:text"`

	// Reference is the authority-assigned code (CUFE) for accepted documents.
	Reference string `gorm:"type:text;index"`
	Message   string `gorm:"type:text"`

	// RawBody is the gateway's body byte for byte as received; RawResponse is
	// the decoded JSON form, kept queryable.
	RawBody     string            `gorm:"type:text;not null;default:''"`
	RawResponse datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "submissions" }
