package workflow

// State represents a bill state in the triage lifecycle
type State string

const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateRefused  State = "refused"
)

var validStates = map[State]bool{
	StatePending:  true,
	StateAccepted: true,
	StateRefused:  true,
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}

// IsDecided returns true if an administrator has already ruled on the bill
func (s State) IsDecided() bool {
	return s == StateAccepted || s == StateRefused
}
