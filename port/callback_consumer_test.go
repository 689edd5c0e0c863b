package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/superflowerr"
)

func TestCallbackConsumerPort_ReceiveInvokesCallbackSynchronously(t *testing.T) {
	var got []int
	c := NewCallbackConsumerPort[int](policy.Multi, func(v int) { got = append(got, v) }, nil)

	c.Receive(1, "")
	c.Receive(2, "")

	assert.Equal(t, []int{1, 2}, got)
	assert.EqualValues(t, 2, c.Status().Transactions)
}

func TestCallbackConsumerPort_ConnectRejectsIncompatiblePeer(t *testing.T) {
	c := NewCallbackConsumerPort[int](policy.Multi, func(int) {}, nil)
	err := c.Connect(7)
	assert.ErrorIs(t, err, superflowerr.ErrTypeMismatch)
}

func TestCallbackConsumerPort_DisconnectOneLeavesOtherProducersConnected(t *testing.T) {
	c := NewCallbackConsumerPort[int](policy.Multi, func(int) {}, nil)
	p1 := NewProducerPort[int](nil)
	p2 := NewProducerPort[int](nil)
	require.NoError(t, c.Connect(p1))
	require.NoError(t, c.Connect(p2))

	c.DisconnectOne(p1.Identity())

	assert.Equal(t, 1, c.Status().Connections)
	assert.False(t, p1.IsConnected())
	assert.True(t, p2.IsConnected())
}

func TestCallbackConsumerPort_SingleCardinalityRejectsSecondProducer(t *testing.T) {
	c := NewCallbackConsumerPort[int](policy.Single, func(int) {}, nil)
	p1 := NewProducerPort[int](nil)
	p2 := NewProducerPort[int](nil)

	require.NoError(t, c.Connect(p1))
	err := c.Connect(p2)
	assert.ErrorIs(t, err, superflowerr.ErrCardinalityViolation)
}
