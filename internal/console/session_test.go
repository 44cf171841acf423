package console

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tramnet.mpk.org/internal/transit"
)

func TestSessionStopChoices(t *testing.T) {
	ctx := context.Background()
	opts := transit.Options{}
	registry := transit.NewRegistry("SIP", opts)
	var ids transit.IDGenerator
	_, err := transit.Build(ctx, registry, &ids, transit.Topology{
		StopNames: []string{"Rondo", "Dworzec", "Plac"},
		Lines:     [][]int{{0, 1}, {1, 2, 1}},
	}, opts)
	require.NoError(t, err)

	s := NewSession(registry, NewPrinter(&bytes.Buffer{}, false))
	choices, err := s.StopChoices(ctx)
	require.NoError(t, err)

	assert.Equal(t, []StopChoice{
		{Line: 1, ID: 0, Name: "Rondo"},
		{Line: 1, ID: 1, Name: "Dworzec"},
		{Line: 2, ID: 1, Name: "Dworzec"},
		{Line: 2, ID: 2, Name: "Plac"},
		{Line: 2, ID: 1, Name: "Dworzec"},
	}, choices)
}

func TestSessionTramChoices(t *testing.T) {
	n := newNetwork(t)
	ctx := context.Background()
	s := NewSession(n.registry, NewPrinter(&bytes.Buffer{}, false))

	choices, err := s.TramChoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, choices)

	first := n.startTram(t, 10, transit.TimeOfDay{Hour: 7})
	second := n.startTram(t, 11, transit.TimeOfDay{Hour: 8})

	choices, err = s.TramChoices(ctx)
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.Equal(t, 0, choices[0].Index)
	assert.Equal(t, 10, choices[0].ID)
	assert.True(t, transit.SameActor(first, choices[0].Tram))
	assert.Equal(t, 1, choices[1].Index)
	assert.True(t, transit.SameActor(second, choices[1].Tram))
}

func TestSessionSubscribeAndClose(t *testing.T) {
	n := newNetwork(t)
	ctx := context.Background()
	tram := n.startTram(t, 3, transit.TimeOfDay{Hour: 12})
	printer := NewPrinter(&bytes.Buffer{}, false)
	s := NewSession(n.registry, printer)

	name, err := s.SubscribeStop(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Plac", name)
	_, err = s.SubscribeStop(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, s.SubscribeTram(ctx, tram))

	assert.Len(t, n.stops[2].Subscribers(), 2)
	assert.Len(t, tram.Subscribers(), 1)

	require.NoError(t, s.Close(ctx))
	assert.Empty(t, n.stops[2].Subscribers())
	assert.Empty(t, tram.Subscribers())

	// A second close has nothing left to do.
	require.NoError(t, s.Close(ctx))
}

func TestSessionSubscribeUnknownStop(t *testing.T) {
	n := newNetwork(t)
	s := NewSession(n.registry, NewPrinter(&bytes.Buffer{}, false))

	_, err := s.SubscribeStop(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoSuchStop)
}
