package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

// BillRepository handles bill database operations. Implements
// port.BillRepository over sqlite.
type BillRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *sql.DB, logger *zap.Logger) *BillRepository {
	return &BillRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new bill and assigns a store identifier.
func (r *BillRepository) Create(ctx context.Context, bill *entity.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.NewString()
	}
	now := time.Now()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	query := `
		INSERT INTO bills (
			id, email, type, name, amount, date, vat, pct, commentary,
			file_url, file_name, status, comment_admin, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		bill.ID,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Amount,
		bill.Date,
		bill.VAT,
		bill.Pct,
		bill.Commentary,
		bill.FileURL,
		bill.FileName,
		bill.Status,
		bill.CommentAdmin,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.Error(err))
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// GetByID retrieves a bill by its identifier
func (r *BillRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	query := `
		SELECT id, email, type, name, amount, date, vat, pct, commentary,
		       file_url, file_name, status, comment_admin, created_at, updated_at
		FROM bills
		WHERE id = ?
	`

	bill, err := scanBill(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill not found: %s", id)
	}
	if err != nil {
		r.logger.Error("Failed to get bill", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// Upsert updates the bill stored under id, creating it when absent. The
// identifier stays stable once assigned.
func (r *BillRepository) Upsert(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error) {
	bill.ID = id
	bill.UpdatedAt = time.Now()

	query := `
		UPDATE bills SET
			email = ?, type = ?, name = ?, amount = ?, date = ?, vat = ?,
			pct = ?, commentary = ?, file_url = ?, file_name = ?, status = ?,
			comment_admin = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		bill.Email,
		bill.Type,
		bill.Name,
		bill.Amount,
		bill.Date,
		bill.VAT,
		bill.Pct,
		bill.Commentary,
		bill.FileURL,
		bill.FileName,
		bill.Status,
		bill.CommentAdmin,
		bill.UpdatedAt,
		id,
	)
	if err != nil {
		r.logger.Error("Failed to upsert bill", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to upsert bill: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		if err := r.Create(ctx, bill); err != nil {
			return nil, err
		}
	}
	return bill, nil
}

// List returns all bills ordered by creation time
func (r *BillRepository) List(ctx context.Context) ([]*entity.Bill, error) {
	query := `
		SELECT id, email, type, name, amount, date, vat, pct, commentary,
		       file_url, file_name, status, comment_admin, created_at, updated_at
		FROM bills
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.Error(err))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*entity.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBill(row rowScanner) (*entity.Bill, error) {
	var bill entity.Bill
	var fileURL, fileName sql.NullString

	err := row.Scan(
		&bill.ID,
		&bill.Email,
		&bill.Type,
		&bill.Name,
		&bill.Amount,
		&bill.Date,
		&bill.VAT,
		&bill.Pct,
		&bill.Commentary,
		&fileURL,
		&fileName,
		&bill.Status,
		&bill.CommentAdmin,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fileURL.Valid {
		bill.FileURL = &fileURL.String
	}
	if fileName.Valid {
		bill.FileName = &fileName.String
	}
	return &bill, nil
}
