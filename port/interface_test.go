package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FFI-no/superflow/superflowerr"
)

type secretResolver interface {
	Resolve(name string) (string, bool)
}

type fakeResolver map[string]string

func (f fakeResolver) Resolve(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

func TestInterfaceHostClient_ClientGetsSharedCapability(t *testing.T) {
	host := NewInterfaceHost[secretResolver](fakeResolver{"db": "s3cr3t"}, nil)
	client := NewInterfaceClient[secretResolver](nil)

	require.NoError(t, client.Connect(host))

	impl, ok := client.Get()
	require.True(t, ok)
	v, found := impl.Resolve("db")
	assert.True(t, found)
	assert.Equal(t, "s3cr3t", v)

	assert.Equal(t, uint64(1), client.Status().Transactions)
	assert.Equal(t, uint64(1), host.Status().Transactions)

	_, ok = client.Get()
	require.True(t, ok)
	assert.Equal(t, uint64(2), client.Status().Transactions)
	assert.Equal(t, uint64(2), host.Status().Transactions)
}

func TestInterfaceHostClient_GetBeforeConnectReturnsFalse(t *testing.T) {
	client := NewInterfaceClient[secretResolver](nil)
	_, ok := client.Get()
	assert.False(t, ok)
}

func TestInterfaceHostClient_DisconnectClearsCapability(t *testing.T) {
	host := NewInterfaceHost[secretResolver](fakeResolver{}, nil)
	client := NewInterfaceClient[secretResolver](nil)
	require.NoError(t, client.Connect(host))

	client.Disconnect()
	_, ok := client.Get()
	assert.False(t, ok)
	assert.False(t, host.IsConnected())
}

func TestInterfaceHostClient_ConnectingSecondDistinctHostFails(t *testing.T) {
	host1 := NewInterfaceHost[secretResolver](fakeResolver{}, nil)
	host2 := NewInterfaceHost[secretResolver](fakeResolver{}, nil)
	client := NewInterfaceClient[secretResolver](nil)

	require.NoError(t, client.Connect(host1))
	err := client.Connect(host2)
	assert.ErrorIs(t, err, superflowerr.ErrCardinalityViolation)
}

func TestInterfaceHostClient_ConnectRejectsIncompatiblePeer(t *testing.T) {
	client := NewInterfaceClient[secretResolver](nil)
	err := client.Connect(42)
	assert.ErrorIs(t, err, superflowerr.ErrTypeMismatch)
}

func TestInterfaceHostClient_HostServesMultipleClients(t *testing.T) {
	host := NewInterfaceHost[secretResolver](fakeResolver{"k": "v"}, nil)
	c1 := NewInterfaceClient[secretResolver](nil)
	c2 := NewInterfaceClient[secretResolver](nil)

	require.NoError(t, c1.Connect(host))
	require.NoError(t, c2.Connect(host))

	assert.Equal(t, 2, host.Status().Connections)
}

func TestInterfaceHostClient_DisconnectOneLeavesOtherClientsConnected(t *testing.T) {
	host := NewInterfaceHost[secretResolver](fakeResolver{"k": "v"}, nil)
	c1 := NewInterfaceClient[secretResolver](nil)
	c2 := NewInterfaceClient[secretResolver](nil)

	require.NoError(t, c1.Connect(host))
	require.NoError(t, c2.Connect(host))

	host.DisconnectOne(c1.Identity())

	assert.Equal(t, 1, host.Status().Connections)
	assert.False(t, c1.IsConnected())
	assert.True(t, c2.IsConnected())

	_, ok := c2.Get()
	assert.True(t, ok)
}
