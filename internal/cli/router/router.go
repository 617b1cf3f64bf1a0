package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ErrRouteNotFound is returned when no route matches a path
var ErrRouteNotFound = errors.New("route not found")

// TokenSource reports the current access token; empty means unauthenticated
type TokenSource interface {
	Token() string
}

// Location is the result of a navigation
type Location struct {
	Route  Route
	Path   string
	Params map[string]string
	// Redirected is set when the guard replaced the requested path
	Redirected bool
	From       string
}

// Router resolves paths against a static route table and runs the guard
// before each navigation
type Router struct {
	routes []Route
	tokens TokenSource
	log    zerolog.Logger

	mu      sync.Mutex
	current Location
	history []Location
}

// New creates a router over routes. The table is copied and never changes.
func New(routes []Route, tokens TokenSource, log zerolog.Logger) *Router {
	table := make([]Route, len(routes))
	copy(table, routes)

	return &Router{
		routes: table,
		tokens: tokens,
		log:    log.With().Str("component", "router").Logger(),
	}
}

// Routes returns a copy of the route table
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Resolve finds the first route matching path
func (r *Router) Resolve(path string) (Route, map[string]string, error) {
	clean := path
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}

	for _, route := range r.routes {
		if params, ok := route.match(clean); ok {
			return route, params, nil
		}
	}
	return Route{}, nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
}

// Push navigates to path. The guard may redirect to the login route, in
// which case the returned location is the login route with Redirected set.
func (r *Router) Push(_ context.Context, path string) (Location, error) {
	route, params, err := r.Resolve(path)
	if err != nil {
		return Location{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	hasToken := r.tokens != nil && r.tokens.Token() != ""
	loc := Location{Route: route, Path: path, Params: params}

	if redirect, allowed := Guard(route, hasToken); !allowed {
		target, _, err := r.Resolve(redirect)
		if err != nil {
			return Location{}, err
		}
		r.log.Debug().Str("from", path).Str("to", redirect).Msg("navigation redirected")
		loc = Location{Route: target, Path: redirect, Params: map[string]string{}, Redirected: true, From: path}
	}

	r.current = loc
	r.history = append(r.history, loc)
	return loc, nil
}

// Current returns the last location navigated to
func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns every location navigated to, oldest first
func (r *Router) History() []Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Location, len(r.history))
	copy(out, r.history)
	return out
}
