// Package store composes the sqlite repository and the receipt storage into
// the BillStore capability the application services consume.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TintinDu/BilledApp/internal/application/port"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
	"github.com/TintinDu/BilledApp/pkg/utils"
)

// BillStore implements port.BillStore. Artifact creation is the first phase
// of the submission pipeline: it persists the receipt file and a pending
// bill skeleton whose identifier keys the later full upsert.
type BillStore struct {
	repo    port.BillRepository
	storage port.ArtifactStorage
	logger  *zap.Logger
}

// NewBillStore creates a new BillStore
func NewBillStore(repo port.BillRepository, storage port.ArtifactStorage, logger *zap.Logger) *BillStore {
	return &BillStore{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// CreateArtifact stores the receipt bytes and creates the bill skeleton.
func (s *BillStore) CreateArtifact(ctx context.Context, upload *port.ArtifactUpload) (*port.ArtifactRef, error) {
	if upload == nil || upload.FileName == "" {
		return nil, fmt.Errorf("artifact upload requires a file name")
	}

	// Receipts are namespaced per owner; a random prefix avoids collisions
	// between same-named files. Control characters never reach the filesystem.
	fileName := utils.SanitizeString(upload.FileName)
	relativePath := fmt.Sprintf("%s/%s_%s", upload.Email, uuid.NewString(), fileName)
	fileURL, err := s.storage.Save(ctx, relativePath, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	bill := &entity.Bill{
		Email:    upload.Email,
		FileURL:  &fileURL,
		FileName: &fileName,
		Status:   entity.StatusPending,
	}
	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill skeleton: %w", err)
	}

	s.logger.Info("Receipt artifact created",
		zap.String("bill_id", bill.ID),
		zap.String("file_url", fileURL))

	return &port.ArtifactRef{ID: bill.ID, FileURL: fileURL}, nil
}

// UpsertBill persists a bill keyed by selector; an empty selector creates a
// fresh record.
func (s *BillStore) UpsertBill(ctx context.Context, bill *entity.Bill, selector string) (*entity.Bill, error) {
	if bill.Status == "" {
		bill.Status = entity.StatusPending
	}
	if !entity.ValidStatus(bill.Status) {
		return nil, fmt.Errorf("invalid bill status: %q", bill.Status)
	}

	// Suspect field values are logged, not rejected: the submission flow has
	// already committed to persisting whatever the form carried.
	if bill.Email != "" {
		if err := utils.ValidateEmail(bill.Email); err != nil {
			s.logger.Warn("Bill carries a malformed email", zap.String("email", bill.Email))
		}
	}
	if bill.Date != "" {
		if err := utils.ValidateDate(bill.Date); err != nil {
			s.logger.Warn("Bill carries a malformed date", zap.String("date", bill.Date))
		}
	}
	if err := utils.ValidateAmount(bill.Amount); err != nil {
		s.logger.Warn("Bill carries a non-positive amount", zap.Int("amount", bill.Amount))
	}

	if selector == "" {
		bill.CreatedAt = time.Now()
		if err := s.repo.Create(ctx, bill); err != nil {
			return nil, err
		}
		return bill, nil
	}
	return s.repo.Upsert(ctx, selector, bill)
}

// ListBills returns all bills visible to the caller.
func (s *BillStore) ListBills(ctx context.Context) ([]*entity.Bill, error) {
	return s.repo.List(ctx)
}
