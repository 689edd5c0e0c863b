package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
)

type fakePeer struct {
	id    ID
	added []ID
}

func newFakePeer() *fakePeer { return &fakePeer{id: NewID()} }

func (f *fakePeer) Identity() ID { return f.id }
func (f *fakePeer) addPeer(self Peer) error {
	f.added = append(f.added, self.Identity())
	return nil
}
func (f *fakePeer) removePeer(id ID) {
	for i, a := range f.added {
		if a == id {
			f.added = append(f.added[:i], f.added[i+1:]...)
			return
		}
	}
}

type refusingPeer struct{ id ID }

func (r *refusingPeer) Identity() ID            { return r.id }
func (r *refusingPeer) addPeer(self Peer) error { return superflowerr.ErrTypeMismatch }
func (r *refusingPeer) removePeer(id ID)        {}

func TestConnectionRegistry_ConnectIsSymmetric(t *testing.T) {
	self := newFakePeer()
	other := newFakePeer()
	reg := NewConnectionRegistry(policy.Multi)

	require.NoError(t, reg.Connect(self, other))
	assert.True(t, reg.IsConnected())
	assert.Equal(t, []ID{other.id}, reg.PeerIDs())
	assert.Contains(t, other.added, self.id)
}

func TestConnectionRegistry_ConnectSamePeerTwiceIsNoop(t *testing.T) {
	self := newFakePeer()
	other := newFakePeer()
	reg := NewConnectionRegistry(policy.Multi)

	require.NoError(t, reg.Connect(self, other))
	require.NoError(t, reg.Connect(self, other))
	assert.Equal(t, 1, reg.Count())
	assert.Len(t, other.added, 1)
}

func TestConnectionRegistry_SingleCardinalityRejectsSecondDistinctPeer(t *testing.T) {
	self := newFakePeer()
	a := newFakePeer()
	b := newFakePeer()
	reg := NewConnectionRegistry(policy.Single)

	require.NoError(t, reg.Connect(self, a))
	err := reg.Connect(self, b)
	assert.ErrorIs(t, err, superflowerr.ErrCardinalityViolation)
	assert.Equal(t, 1, reg.Count())
}

func TestConnectionRegistry_ConnectRollsBackOnPeerRefusal(t *testing.T) {
	self := newFakePeer()
	other := &refusingPeer{id: NewID()}
	reg := NewConnectionRegistry(policy.Multi)

	err := reg.Connect(self, other)
	assert.ErrorIs(t, err, superflowerr.ErrTypeMismatch)
	assert.False(t, reg.IsConnected())
}

func TestConnectionRegistry_DisconnectIsIdempotent(t *testing.T) {
	self := newFakePeer()
	other := newFakePeer()
	reg := NewConnectionRegistry(policy.Multi)
	require.NoError(t, reg.Connect(self, other))

	reg.Disconnect(self)
	reg.Disconnect(self)
	assert.False(t, reg.IsConnected())
	assert.Empty(t, other.added)
}

func TestConnectionRegistry_PeerIDsPreserveConnectionOrder(t *testing.T) {
	self := newFakePeer()
	reg := NewConnectionRegistry(policy.Multi)
	var ids []ID
	for i := 0; i < 5; i++ {
		p := newFakePeer()
		ids = append(ids, p.id)
		require.NoError(t, reg.Connect(self, p))
	}
	assert.Equal(t, ids, reg.PeerIDs())
}
