package service

import (
	"github.com/TintinDu/BilledApp/internal/application/port"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

// FilterBills returns the bills whose status equals status, preserving the
// input order. When a usable session is available the result additionally
// excludes bills owned by reserved test accounts and by the authenticated
// user (an administrator does not triage their own bills). A nil session, or
// one whose lookup fails, degrades to the plain status filter.
func FilterBills(bills []*entity.Bill, status string, session port.Session) []*entity.Bill {
	if len(bills) == 0 {
		return []*entity.Bill{}
	}

	excluded := map[string]bool{}
	if session != nil {
		if user, err := session.Current(); err == nil && user != nil {
			for _, email := range entity.ReservedTestAccounts {
				excluded[email] = true
			}
			excluded[user.Email] = true
		}
	}

	filtered := make([]*entity.Bill, 0, len(bills))
	for _, bill := range bills {
		if bill == nil || bill.Status != status {
			continue
		}
		if excluded[bill.Email] {
			continue
		}
		filtered = append(filtered, bill)
	}
	return filtered
}

// GetStatus maps a triage bucket index to its status. The dashboard exposes
// exactly three buckets; anything else falls back to pending.
func GetStatus(index int) string {
	switch index {
	case 1:
		return entity.StatusPending
	case 2:
		return entity.StatusAccepted
	case 3:
		return entity.StatusRefused
	default:
		return entity.StatusPending
	}
}
