// Package navigation adapts route changes for a backend deployment. The
// view layer owning the URL lives outside this process, so navigation here
// is an observable event, not a page change.
package navigation

import (
	"sync"

	"go.uber.org/zap"

	"github.com/TintinDu/BilledApp/internal/application/port"
)

// LogNavigator records navigation requests in the structured log and keeps
// the last requested route readable, e.g. for a client polling where the
// workflow wants it to go next.
type LogNavigator struct {
	logger *zap.Logger

	mu   sync.Mutex
	last port.Route
}

// NewLogNavigator creates a new LogNavigator
func NewLogNavigator(logger *zap.Logger) *LogNavigator {
	return &LogNavigator{logger: logger}
}

// Navigate implements port.Navigator
func (n *LogNavigator) Navigate(route port.Route) {
	n.mu.Lock()
	n.last = route
	n.mu.Unlock()

	n.logger.Info("Navigation requested", zap.String("route", string(route)))
}

// Last returns the most recently requested route, or "" when none
func (n *LogNavigator) Last() port.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
