package port

import "github.com/TintinDu/BilledApp/internal/domain/entity"

// Session is the identity capability: a synchronous read of the currently
// authenticated user. Lookup failure must degrade (filtering and submission
// paths treat it as "no session"), never crash.
type Session interface {
	Current() (*entity.User, error)
}

// SessionFunc adapts a plain function to the Session capability.
type SessionFunc func() (*entity.User, error)

// Current implements Session.
func (f SessionFunc) Current() (*entity.User, error) { return f() }
