package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/TintinDu/BilledApp/internal/application/port"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

// ErrInvalidAmount is returned when the submitted amount does not parse as
// an integer. The submission is rejected outright: no default is applied,
// nothing is persisted and no navigation is requested.
var ErrInvalidAmount = errors.New("amount is not a valid integer")

// DefaultPct is applied when the pct field is absent, unparsable or zero.
const DefaultPct = 20

// FormSnapshot is the synchronous read of the submission form at submit
// time. All values arrive as raw strings; parsing happens here.
type FormSnapshot struct {
	Type       string
	Name       string
	Amount     string
	Date       string
	VAT        string
	Pct        string
	Commentary string
}

// BillService assembles a bill from the form snapshot plus whatever the
// upload pipeline last captured, and persists it fire-and-forget.
type BillService interface {
	// HandleSubmit validates the snapshot, requests navigation back to the
	// bill list immediately, and lets the persist settle in the background.
	// Callers must not assume the record is durably stored when this
	// returns: the upsert races the navigation by design, and its own
	// completion triggers a second, redundant navigation.
	HandleSubmit(ctx context.Context, form FormSnapshot) error

	// Flush blocks until in-flight persistence calls settle. Used by tests
	// and graceful shutdown.
	Flush()
}

type billServiceImpl struct {
	store     port.BillStore
	session   port.Session
	navigator port.Navigator
	upload    UploadService
	logger    Logger

	inflight sync.WaitGroup
}

// NewBillService creates a new BillService. A nil store skips persistence
// entirely (offline composition); navigation still occurs.
func NewBillService(
	store port.BillStore,
	session port.Session,
	navigator port.Navigator,
	upload UploadService,
	logger Logger,
) BillService {
	return &billServiceImpl{
		store:     store,
		session:   session,
		navigator: navigator,
		upload:    upload,
		logger:    logger,
	}
}

func (s *billServiceImpl) HandleSubmit(ctx context.Context, form FormSnapshot) error {
	amount, err := strconv.Atoi(form.Amount)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, form.Amount)
	}

	pct, err := strconv.Atoi(form.Pct)
	if err != nil || pct == 0 {
		pct = DefaultPct
	}

	var email string
	if s.session != nil {
		if user, sessErr := s.session.Current(); sessErr == nil && user != nil {
			email = user.Email
		}
	}

	bill := &entity.Bill{
		Email:      email,
		Type:       form.Type,
		Name:       form.Name,
		Amount:     amount,
		Date:       form.Date,
		VAT:        form.VAT,
		Pct:        pct,
		Commentary: form.Commentary,
		Status:     entity.StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	var selector string
	if capture := s.upload.Captured(); capture != nil {
		bill.FileURL = &capture.FileURL
		bill.FileName = &capture.FileName
		selector = capture.BillID
	}

	if s.store != nil {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			if _, upErr := s.store.UpsertBill(context.WithoutCancel(ctx), bill, selector); upErr != nil {
				s.logger.Error("Failed to persist bill", "error", upErr, "selector", selector)
				return
			}
			s.logger.Info("Bill persisted", "selector", selector, "status", bill.Status)
			s.navigator.Navigate(port.RouteBills)
		}()
	}

	s.navigator.Navigate(port.RouteBills)
	return nil
}

func (s *billServiceImpl) Flush() {
	s.inflight.Wait()
}
