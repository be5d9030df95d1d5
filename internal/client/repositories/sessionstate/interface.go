package sessionstate

import "context"

// Record is the sealed session blob as stored on disk.
type Record struct {
	Ciphertext []byte
	Nonce      []byte
}

// Repository persists the (single) sealed session record.
//
// Load returns common.ErrorNotFound when nothing is persisted.
type Repository interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Clear(ctx context.Context) error
}
