package workflow

// NewBillLifecycle builds the triage transition table. Decisions are allowed
// from every state: the dashboard lets an administrator re-open a decided
// bill and rule on it again, so accepted and refused are not terminal.
func NewBillLifecycle() Builder {
	b := NewBuilder()

	b.Configure(StatePending).
		Permit(TriggerAccept, StateAccepted).
		Permit(TriggerRefuse, StateRefused)

	b.Configure(StateAccepted).
		Permit(TriggerAccept, StateAccepted).
		Permit(TriggerRefuse, StateRefused)

	b.Configure(StateRefused).
		Permit(TriggerAccept, StateAccepted).
		Permit(TriggerRefuse, StateRefused)

	return b
}
