package workflow

// Trigger represents a triage action that can cause a state transition
type Trigger string

const (
	TriggerAccept Trigger = "ACCEPT"
	TriggerRefuse Trigger = "REFUSE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
