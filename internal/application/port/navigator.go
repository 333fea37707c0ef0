package port

// Route is a symbolic path understood by the external view router.
type Route string

// Route symbols consumed by the core. The router owns their resolution.
const (
	RouteBills     Route = "#employee/bills"
	RouteNewBill   Route = "#employee/bill/new"
	RouteDashboard Route = "#admin/dashboard"
	RouteLogin     Route = "/"
)

// Navigator requests a route change from the external view layer. No return
// value is consumed by the core.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a plain function to the Navigator capability.
type NavigatorFunc func(route Route)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(route Route) { f(route) }
