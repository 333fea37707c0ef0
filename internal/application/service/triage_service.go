package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/TintinDu/BilledApp/internal/application/port"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
	"github.com/TintinDu/BilledApp/internal/domain/workflow"
)

// TogglePhase is the explicit disclosure state of a bucket or detail panel.
type TogglePhase string

const (
	PhaseExpanded        TogglePhase = "expanded"
	PhaseCollapsed       TogglePhase = "collapsed"
	PhaseShowForm        TogglePhase = "show-form"
	PhaseShowPlaceholder TogglePhase = "show-placeholder"
)

// BucketView is what one status bucket renders after a toggle.
type BucketView struct {
	Index  int            `json:"index"`
	Status string         `json:"status"`
	Phase  TogglePhase    `json:"phase"`
	Cards  []*entity.Bill `json:"cards"`
}

// DetailView is what the right-hand panel renders after a bill card toggle.
type DetailView struct {
	BillID string       `json:"billId"`
	Phase  TogglePhase  `json:"phase"`
	Bill   *entity.Bill `json:"bill,omitempty"`
}

// TriageService drives the admin dashboard: which bucket is expanded, which
// bill is open for review, and the accept/refuse decisions.
type TriageService interface {
	// LoadBills fetches all bills from the store. Failures bubble up so the
	// page can display them, unlike decision failures which are logged only.
	LoadBills(ctx context.Context) ([]*entity.Bill, error)

	// ToggleBucket flips the bucket between expanded (its filtered card
	// list) and collapsed. Activating a different bucket resets the phase
	// to expanded.
	ToggleBucket(index int) *BucketView

	// ToggleBill flips the detail panel between the triage form for the
	// bill and the default placeholder. Switching bills resets to the form.
	ToggleBill(bill *entity.Bill) *DetailView

	// Accept rules the bill accepted with the given admin comment
	Accept(ctx context.Context, bill *entity.Bill, commentAdmin string) *entity.Bill

	// Refuse rules the bill refused with the given admin comment
	Refuse(ctx context.Context, bill *entity.Bill, commentAdmin string) *entity.Bill

	// Flush blocks until in-flight decision upserts settle
	Flush()
}

type triageServiceImpl struct {
	store     port.BillStore
	session   port.Session
	navigator port.Navigator
	lifecycle workflow.Builder
	logger    Logger

	mu           sync.Mutex
	bills        []*entity.Bill
	activeBucket int
	bucketPhase  TogglePhase
	activeBillID string
	detailPhase  TogglePhase

	inflight sync.WaitGroup
}

// NewTriageService creates a new TriageService
func NewTriageService(
	store port.BillStore,
	session port.Session,
	navigator port.Navigator,
	logger Logger,
) TriageService {
	return &triageServiceImpl{
		store:     store,
		session:   session,
		navigator: navigator,
		lifecycle: workflow.NewBillLifecycle(),
		logger:    logger,
	}
}

func (s *triageServiceImpl) LoadBills(ctx context.Context) ([]*entity.Bill, error) {
	if s.store == nil {
		return []*entity.Bill{}, nil
	}

	bills, err := s.store.ListBills(ctx)
	if err != nil {
		s.logger.Error("Failed to list bills", "error", err)
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	s.mu.Lock()
	s.bills = bills
	s.mu.Unlock()
	return bills, nil
}

func (s *triageServiceImpl) ToggleBucket(index int) *BucketView {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Activating another bucket resets its phase instead of inheriting the
	// previous bucket's click history.
	if s.activeBucket != index {
		s.activeBucket = index
		s.bucketPhase = PhaseExpanded
	} else if s.bucketPhase == PhaseExpanded {
		s.bucketPhase = PhaseCollapsed
	} else {
		s.bucketPhase = PhaseExpanded
	}

	status := GetStatus(index)
	view := &BucketView{Index: index, Status: status, Phase: s.bucketPhase}
	if s.bucketPhase == PhaseExpanded {
		view.Cards = FilterBills(s.bills, status, s.session)
	}
	return view
}

func (s *triageServiceImpl) ToggleBill(bill *entity.Bill) *DetailView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeBillID != bill.ID {
		s.activeBillID = bill.ID
		s.detailPhase = PhaseShowForm
	} else if s.detailPhase == PhaseShowForm {
		s.detailPhase = PhaseShowPlaceholder
	} else {
		s.detailPhase = PhaseShowForm
	}

	view := &DetailView{BillID: bill.ID, Phase: s.detailPhase}
	if s.detailPhase == PhaseShowForm {
		view.Bill = bill
	}
	return view
}

func (s *triageServiceImpl) Accept(ctx context.Context, bill *entity.Bill, commentAdmin string) *entity.Bill {
	return s.decide(ctx, bill, workflow.TriggerAccept, commentAdmin)
}

func (s *triageServiceImpl) Refuse(ctx context.Context, bill *entity.Bill, commentAdmin string) *entity.Bill {
	return s.decide(ctx, bill, workflow.TriggerRefuse, commentAdmin)
}

// decide is the shared update helper behind both decision actions. The
// upsert is fire-and-forget: failures are logged, never surfaced, and the
// dashboard navigation is requested without waiting for the store.
func (s *triageServiceImpl) decide(ctx context.Context, bill *entity.Bill, trigger workflow.Trigger, commentAdmin string) *entity.Bill {
	if !entity.ValidStatus(bill.Status) {
		s.logger.Error("Bill carries an unknown status", "bill_id", bill.ID, "status", bill.Status)
		return nil
	}

	machine := s.lifecycle.Build(workflow.State(bill.Status))
	if err := machine.Fire(ctx, trigger); err != nil {
		s.logger.Error("Triage transition rejected", "error", err, "bill_id", bill.ID, "trigger", trigger.String())
		return nil
	}

	updated := bill.Clone()
	updated.Status = machine.State().String()
	updated.CommentAdmin = commentAdmin

	if s.store != nil {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			if _, err := s.store.UpsertBill(context.WithoutCancel(ctx), updated, updated.ID); err != nil {
				s.logger.Error("Failed to persist triage decision", "error", err, "bill_id", updated.ID)
				return
			}
			s.logger.Info("Triage decision persisted", "bill_id", updated.ID, "status", updated.Status)
		}()
	}

	s.navigator.Navigate(port.RouteDashboard)
	return updated
}

func (s *triageServiceImpl) Flush() {
	s.inflight.Wait()
}
