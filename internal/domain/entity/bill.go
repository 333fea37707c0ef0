package entity

import "time"

// Bill represents an expense-report record submitted by an employee.
// FileURL and FileName stay nil until a receipt upload succeeds; a bill
// without an attached receipt is persisted with both unset.
type Bill struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Amount       int       `json:"amount"`
	Date         string    `json:"date"`
	VAT          string    `json:"vat"`
	Pct          int       `json:"pct"`
	Commentary   string    `json:"commentary"`
	FileURL      *string   `json:"fileUrl"`
	FileName     *string   `json:"fileName"`
	Status       string    `json:"status"`
	CommentAdmin string    `json:"commentAdmin,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a copy of the bill. Triage decisions mutate the copy so the
// in-memory list keeps the pre-decision record until the store round-trips.
func (b *Bill) Clone() *Bill {
	if b == nil {
		return nil
	}
	clone := *b
	if b.FileURL != nil {
		u := *b.FileURL
		clone.FileURL = &u
	}
	if b.FileName != nil {
		n := *b.FileName
		clone.FileName = &n
	}
	return &clone
}

// HasReceipt reports whether an uploaded receipt is attached.
func (b *Bill) HasReceipt() bool {
	return b.FileURL != nil && b.FileName != nil
}

// User holds the identity read from the session capability.
type User struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}
