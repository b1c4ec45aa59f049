package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoHistory is returned by Back when there is no earlier view.
var ErrNoHistory = errors.New("no previous view")

// Route names a screen of the client.
type Route string

const (
	RouteHome   Route = "/"
	RouteLogin  Route = "/login"
	RouteMine   Route = "/my-recipes"
	RouteRecipe Route = "/recipes/:id"
)

// View renders a route. param is the route parameter, if any.
type View func(ctx context.Context, param int64) error

type visit struct {
	route Route
	param int64
}

// Navigator switches between views and remembers where the user has been.
type Navigator struct {
	mu      sync.Mutex
	views   map[Route]View
	current Route
	history []visit
}

func NewNavigator() *Navigator {
	return &Navigator{views: map[Route]View{}}
}

// Handle registers the view for r.
func (n *Navigator) Handle(r Route, v View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views[r] = v
}

// Go makes r current and renders it.
func (n *Navigator) Go(ctx context.Context, r Route, param int64) error {
	n.mu.Lock()
	v, ok := n.views[r]
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("no view for route %s", r)
	}
	n.current = r
	n.history = append(n.history, visit{route: r, param: param})
	n.mu.Unlock()

	return v(ctx, param)
}

func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Back drops the current view and renders the one before it again.
func (n *Navigator) Back(ctx context.Context) error {
	n.mu.Lock()
	if len(n.history) < 2 {
		n.mu.Unlock()
		return ErrNoHistory
	}
	n.history = n.history[:len(n.history)-1]
	prev := n.history[len(n.history)-1]
	n.current = prev.route
	v := n.views[prev.route]
	n.mu.Unlock()

	return v(ctx, prev.param)
}
