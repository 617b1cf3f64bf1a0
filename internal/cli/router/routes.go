package router

import "strings"

// Route paths
const (
	PathHome         = "/"
	PathRegister     = "/register"
	PathLogin        = "/login"
	PathClients      = "/clients"
	PathClientDebt   = "/clients/:id/debt"
	PathDebts        = "/debts"
	PathDebtPayments = "/debts/:id/payments"
	PathPayments     = "/payments"
)

// Route is a single entry of the route table
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
}

// DefaultRoutes returns the application route table in match order
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathHome, Name: "Home"},
		{Path: PathRegister, Name: "Register"},
		{Path: PathLogin, Name: "Login"},
		{Path: PathClients, Name: "Clients", RequiresAuth: true},
		{Path: PathClientDebt, Name: "ClientDebt", RequiresAuth: true},
		{Path: PathDebts, Name: "Debts", RequiresAuth: true},
		{Path: PathDebtPayments, Name: "DebtPayments", RequiresAuth: true},
		{Path: PathPayments, Name: "Payments", RequiresAuth: true},
	}
}

// match reports whether path fits the route pattern and returns the
// values bound to its :param segments
func (r Route) match(path string) (map[string]string, bool) {
	want := splitPath(r.Path)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			if got[i] == "" {
				return nil, false
			}
			params[seg[1:]] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

// Build fills the :param segments of a route pattern
func Build(pattern string, params map[string]string) string {
	segs := splitPath(pattern)
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") {
			segs[i] = params[seg[1:]]
		}
	}
	return "/" + strings.Join(segs, "/")
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
