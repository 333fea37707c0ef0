package port

import (
	"context"

	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

// ArtifactUpload is the transfer payload sent to the store when a receipt
// file is uploaded: the raw bytes plus the owning employee's email.
type ArtifactUpload struct {
	FileName string
	Content  []byte
	Email    string
}

// ArtifactRef is the store-assigned reference for an uploaded receipt.
type ArtifactRef struct {
	ID      string
	FileURL string
}

// BillStore is the remote persistence capability for bills and receipt
// artifacts. Implementations are opaque asynchronous CRUD; callers must not
// assume durability before the call returns.
type BillStore interface {
	// CreateArtifact persists a receipt file and returns its reference
	CreateArtifact(ctx context.Context, upload *ArtifactUpload) (*ArtifactRef, error)

	// UpsertBill persists a bill record keyed by selector. An empty selector
	// lets the store assign a fresh identifier.
	UpsertBill(ctx context.Context, bill *entity.Bill, selector string) (*entity.Bill, error)

	// ListBills returns all bills visible to the caller
	ListBills(ctx context.Context) ([]*entity.Bill, error)
}
