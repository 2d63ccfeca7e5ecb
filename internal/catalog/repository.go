package catalog

import "context"

// Repository is the catalog record store consumed by the service layer.
// Get returns (nil, nil) when the record does not exist.
type Repository interface {
	Get(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	Create(ctx context.Context, rec *Record) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id int64) error
}

var _ Repository = (*Store)(nil)
