package domain

import "context"

type Repository interface {
	Create(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, id int64) (*Record, error)

	// LatestAccepted returns the most recent accepted submission for the
	// document, or ErrNotFound. Credit notes use this to recover the original
	// invoice's authority reference.
	LatestAccepted(ctx context.Context, kind string, number int64) (*Record, error)
}
