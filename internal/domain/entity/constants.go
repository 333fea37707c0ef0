package entity

// Status constants for Bill. These are the only valid values; new bills are
// always created as StatusPending and only triage decisions move them.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// Expense type labels offered by the submission form. The core only requires
// the label to be non-empty.
const (
	TypeTransport     = "Transports"
	TypeRestaurant    = "Restaurants et bars"
	TypeHotel         = "Hôtel et logement"
	TypeOnlineService = "Services en ligne"
	TypeITElectronics = "IT et électronique"
	TypeEquipment     = "Equipement et matériel"
	TypeTravel        = "Vol"
)

// ReservedTestAccounts are identities whose bills never surface in the admin
// triage buckets outside of a test context.
var ReservedTestAccounts = []string{
	"cedric.hiely@billed.com",
	"christelle.dupont@billed.com",
	"jean.limbert@billed.com",
}

// ValidStatus reports whether s belongs to the status vocabulary.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}
