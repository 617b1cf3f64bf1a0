package router

// Guard decides whether navigation to route may proceed.
// A protected route without a token is redirected to the login route.
func Guard(route Route, hasToken bool) (redirect string, allowed bool) {
	if route.RequiresAuth && !hasToken {
		return PathLogin, false
	}
	return "", true
}
