package rpc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tramnet.mpk.org/internal/transit"
)

type testNode struct {
	*Node
	server *httptest.Server
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()
	node := NewNode(Config{})
	server := httptest.NewServer(node.Handler())
	t.Cleanup(server.Close)
	node.SetAddr(server.URL)
	return &testNode{Node: node, server: server}
}

// newServerNode hosts a registry named "SIP" over stops a, b, c with one
// line a-b-c.
func newServerNode(t *testing.T) (*testNode, *transit.Network) {
	t.Helper()
	node := newTestNode(t)
	reg := transit.NewRegistry("SIP", transit.Options{})
	var ids transit.IDGenerator
	n, err := transit.Build(context.Background(), reg, &ids, transit.Topology{
		StopNames: []string{"a", "b", "c"},
		Lines:     [][]int{{0, 1, 2}},
	}, transit.Options{})
	require.NoError(t, err)
	node.Host(reg)
	return node, n
}

type recordingUser struct {
	identity transit.Identity

	mu     sync.Mutex
	stops  []transit.Stop
	boards [][]transit.Arrival
}

func newRecordingUser() *recordingUser {
	return &recordingUser{identity: transit.Identity{Kind: transit.KindUser, Key: uuid.NewString()}}
}

func (u *recordingUser) Identity() transit.Identity { return u.identity }

func (u *recordingUser) TramUpdated(ctx context.Context, tram transit.Tram, stop transit.Stop) error {
	u.mu.Lock()
	u.stops = append(u.stops, stop)
	u.mu.Unlock()
	return nil
}

func (u *recordingUser) StopUpdated(ctx context.Context, stop transit.Stop, arrivals []transit.Arrival) error {
	u.mu.Lock()
	u.boards = append(u.boards, arrivals)
	u.mu.Unlock()
	return nil
}

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"localhost:4061", "http://localhost:4061"},
		{"http://10.0.0.5:80/", "http://10.0.0.5:80"},
		{" https://sip.example ", "https://sip.example"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAddr(tt.in))
	}
}

func TestRefOfLocalObjectResolvesToSameObject(t *testing.T) {
	node := newTestNode(t)
	reg := transit.NewRegistry("SIP", transit.Options{})
	stop := transit.NewStop(4, "Rynek", reg, transit.Options{})

	ref := node.RefOf(stop)
	assert.Equal(t, node.Addr(), ref.Addr)
	assert.Equal(t, stop.Identity(), ref.Identity())
	assert.Same(t, stop, node.Stop(ref))
	assert.Equal(t, 1, node.Hosted())

	node.Release(stop)
	assert.Equal(t, 0, node.Hosted())
	assert.NotSame(t, stop, node.Stop(ref))
}

func TestRemoteRegistryAndStop(t *testing.T) {
	ctx := context.Background()
	server, n := newServerNode(t)
	client := newTestNode(t)

	reg, err := client.Discover(ctx, server.Addr(), "SIP")
	require.NoError(t, err)

	lines, err := reg.Lines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, transit.SameActor(lines[0], n.Lines[0]))

	stop, found, err := reg.Stop(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, transit.SameActor(stop, n.Stops[1]))

	name, err := stop.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", name)

	_, found, err = reg.Stop(ctx, 99)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoteTramJoinsLineAndShowsInArrivals(t *testing.T) {
	ctx := context.Background()
	server, n := newServerNode(t)
	client := newTestNode(t)

	reg := client.Registry(server.Addr(), "SIP")
	lines, err := reg.Lines(ctx)
	require.NoError(t, err)

	tram := transit.NewTram(transit.Options{})
	require.NoError(t, tram.Start(ctx, 11, lines[0], transit.TimeOfDay{Hour: 8, Minute: 0}))
	require.NoError(t, tram.BuildSchedule(ctx))

	trams, err := n.Lines[0].Trams(ctx)
	require.NoError(t, err)
	require.Len(t, trams, 1)
	assert.True(t, transit.SameActor(trams[0], tram))

	// The server reads the tram's schedule back over the wire.
	arrivals, err := n.Stops[2].Arrivals(ctx)
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, transit.TimeOfDay{Hour: 8, Minute: 30}, arrivals[0].Time)
	id, err := arrivals[0].Tram.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, id)

	// Finishing removes the tram from the remote line.
	for tram.State() != transit.TramFinished {
		require.NoError(t, tram.Advance(ctx))
	}
	trams, err = n.Lines[0].Trams(ctx)
	require.NoError(t, err)
	assert.Empty(t, trams)
}

func TestUserCallbackOverTheWire(t *testing.T) {
	ctx := context.Background()
	server, n := newServerNode(t)
	client := newTestNode(t)

	tram := transit.NewTram(transit.Options{})
	require.NoError(t, tram.Start(ctx, 1, n.Lines[0], transit.TimeOfDay{Hour: 12, Minute: 0}))
	require.NoError(t, tram.BuildSchedule(ctx))

	reg := client.Registry(server.Addr(), "SIP")
	stop, found, err := reg.Stop(ctx, 0)
	require.NoError(t, err)
	require.True(t, found)

	user := newRecordingUser()
	require.NoError(t, stop.RegisterUser(ctx, user))
	require.Len(t, n.Stops[0].Subscribers(), 1)

	res, err := n.Stops[0].NotifySubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, transit.BroadcastResult{Delivered: 1}, res)

	user.mu.Lock()
	require.Len(t, user.boards, 1)
	board := user.boards[0]
	user.mu.Unlock()
	require.Len(t, board, 1)
	assert.Equal(t, transit.TimeOfDay{Hour: 12, Minute: 10}, board[0].Time)
	assert.True(t, transit.SameActor(board[0].Tram, tram))

	require.NoError(t, stop.UnregisterUser(ctx, user))
	assert.Empty(t, n.Stops[0].Subscribers())
}

func TestClosedNodeIsUnreachable(t *testing.T) {
	ctx := context.Background()
	server, n := newServerNode(t)
	client := newTestNode(t)

	user := newRecordingUser()
	require.NoError(t, n.Stops[0].RegisterUser(ctx, server.User(client.Host(user))))
	// The stop holds a proxy pointing at client, which now goes away.
	client.server.Close()

	res, err := n.Stops[0].NotifySubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, transit.BroadcastResult{Failed: 1}, res)
	assert.Len(t, n.Stops[0].Subscribers(), 1)

	_, err = newTestNode(t).Registry(client.Addr(), "SIP").Lines(ctx)
	require.Error(t, err)
	assert.True(t, transit.IsUnreachable(err))

	_, err = server.Discover(ctx, client.Addr(), "SIP")
	assert.True(t, transit.IsUnreachable(err))
}

func TestMissingObjectIsUnreachable(t *testing.T) {
	ctx := context.Background()
	server, _ := newServerNode(t)
	client := newTestNode(t)

	_, err := client.Stop(Ref{Kind: transit.KindStop, Key: "gone", Addr: server.Addr()}).Name(ctx)
	require.Error(t, err)
	assert.True(t, transit.IsUnreachable(err))
}

func TestUnknownMethodIsRemoteError(t *testing.T) {
	ctx := context.Background()
	server, _ := newServerNode(t)
	client := newTestNode(t)

	p := proxy{node: client.Node, target: Ref{Kind: transit.KindRegistry, Key: "SIP", Addr: server.Addr()}}
	err := p.call(ctx, "Teleport", nil, nil)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusBadRequest, remote.Status)
	assert.False(t, transit.IsUnreachable(err))
}

func TestNonRPCServerIsRejected(t *testing.T) {
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer plain.Close()

	client := newTestNode(t)
	registry, err := client.Discover(context.Background(), plain.URL, "SIP")
	require.Error(t, err)
	assert.Nil(t, registry)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.False(t, transit.IsUnreachable(err))

	p := proxy{node: client.Node, target: Ref{Kind: transit.KindTram, Key: "t", Addr: plain.URL}}
	assert.ErrorIs(t, p.call(context.Background(), "UnregisterUser", nil, nil), ErrMalformedResponse)
}

func TestBadArgumentsAreRejected(t *testing.T) {
	server, _ := newServerNode(t)

	resp, err := http.Post(server.Addr()+"/rpc/registry/SIP/Stop", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPing(t *testing.T) {
	node := newTestNode(t)
	resp, err := http.Get(node.Addr() + "/rpc/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
