package port

import (
	"context"

	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

// BillRepository defines persistence operations for Bill
type BillRepository interface {
	// Create inserts a new bill and assigns its identifier
	Create(ctx context.Context, bill *entity.Bill) error

	// GetByID retrieves a bill by its identifier
	GetByID(ctx context.Context, id string) (*entity.Bill, error)

	// Upsert updates the bill stored under id, creating it when absent
	Upsert(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error)

	// List returns all bills ordered by creation time
	List(ctx context.Context) ([]*entity.Bill, error)
}
