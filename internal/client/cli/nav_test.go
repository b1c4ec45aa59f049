package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visited returns every route rendered so far, oldest first.
func visited(n *Navigator) []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Route, 0, len(n.history))
	for _, v := range n.history {
		out = append(out, v.route)
	}
	return out
}

func TestNavigator_GoRendersAndRecords(t *testing.T) {
	n := NewNavigator()
	var got []int64
	n.Handle(RouteRecipe, func(_ context.Context, id int64) error {
		got = append(got, id)
		return nil
	})
	n.Handle(RouteHome, func(context.Context, int64) error { return errors.New("offline") })

	require.NoError(t, n.Go(context.Background(), RouteRecipe, 7))
	assert.Equal(t, RouteRecipe, n.Current())

	require.EqualError(t, n.Go(context.Background(), RouteHome, 0), "offline")
	assert.Equal(t, RouteHome, n.Current())

	assert.Equal(t, []int64{7}, got)
	assert.Equal(t, []Route{RouteRecipe, RouteHome}, visited(n))
}

func TestNavigator_UnknownRoute(t *testing.T) {
	n := NewNavigator()
	require.Error(t, n.Go(context.Background(), RouteMine, 0))
	assert.Empty(t, visited(n))
	assert.Equal(t, Route(""), n.Current())
}

func TestNavigator_BackRendersPreviousView(t *testing.T) {
	n := NewNavigator()
	var shown []int64
	n.Handle(RouteRecipe, func(_ context.Context, id int64) error {
		shown = append(shown, id)
		return nil
	})
	n.Handle(RouteHome, func(context.Context, int64) error { return nil })
	ctx := context.Background()

	require.ErrorIs(t, n.Back(ctx), ErrNoHistory)

	require.NoError(t, n.Go(ctx, RouteRecipe, 3))
	require.NoError(t, n.Go(ctx, RouteRecipe, 8))
	require.NoError(t, n.Go(ctx, RouteHome, 0))

	require.NoError(t, n.Back(ctx))
	assert.Equal(t, RouteRecipe, n.Current())
	require.NoError(t, n.Back(ctx))
	assert.Equal(t, []int64{3, 8, 8, 3}, shown)
	assert.Equal(t, []Route{RouteRecipe}, visited(n))

	require.ErrorIs(t, n.Back(ctx), ErrNoHistory)
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := newConsoleNotifier(&lockedWriter{w: &buf})

	n.Success("Saved")
	n.Error("Nope")
	n.Info("FYI")

	assert.Equal(t, "[ok] Saved\n[error] Nope\n[info] FYI\n", buf.String())
}
