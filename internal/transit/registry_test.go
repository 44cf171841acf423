package transit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStopLookup(t *testing.T) {
	ctx := context.Background()
	n := testNetwork(t, []string{"a", "b", "c"}, []int{0, 1}, []int{2, 1})

	stop, ok, err := n.Registry.Stop(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	name, _ := stop.Name(ctx)
	assert.Equal(t, "c", name)
	assert.True(t, SameActor(stop, n.Stops[2]))

	t.Run("missing id is absent not an error", func(t *testing.T) {
		stop, ok, err := n.Registry.Stop(ctx, 42)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, stop)
	})

	t.Run("stop on no line is not found", func(t *testing.T) {
		n := testNetwork(t, []string{"a", "lonely"}, []int{0})
		_, ok, err := n.Registry.Stop(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRegistrySkipsUnreachableLines(t *testing.T) {
	ctx := context.Background()
	n := testNetwork(t, []string{"a", "b"}, []int{0, 1})

	reg := NewRegistry("SIP", Options{})
	require.NoError(t, reg.AddLine(ctx, newDeadLine()))
	require.NoError(t, reg.AddLine(ctx, n.Lines[0]))

	stop, ok, err := reg.Stop(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, SameActor(stop, n.Stops[1]))
}

func TestRegistryAddRemoveLine(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry("SIP", Options{})
	l1 := NewLine(nil, Options{})
	l2 := NewLine(nil, Options{})

	require.NoError(t, reg.AddLine(ctx, l1))
	require.NoError(t, reg.AddLine(ctx, l2))
	require.NoError(t, reg.RemoveLine(ctx, l1))
	require.NoError(t, reg.RemoveLine(ctx, NewLine(nil, Options{})))

	lines, err := reg.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, SameActor(lines[0], l2))
	assert.Equal(t, Identity{Kind: KindRegistry, Key: "SIP"}, reg.Identity())
}

func TestLineTramMembership(t *testing.T) {
	ctx := context.Background()
	line := NewLine(nil, Options{})
	t1, t2 := NewTram(Options{}), NewTram(Options{})

	require.NoError(t, line.AddTram(ctx, t1))
	require.NoError(t, line.AddTram(ctx, t2))
	require.NoError(t, line.RemoveTram(ctx, t1))
	require.NoError(t, line.RemoveTram(ctx, t1))

	trams, err := line.Trams(ctx)
	require.NoError(t, err)
	require.Len(t, trams, 1)
	assert.True(t, SameActor(trams[0], t2))
}
