package port

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FFI-no/superflow/superflowerr"
)

func TestRequesterPort_RequestRoundtripsThroughResponder(t *testing.T) {
	resp := NewResponderPort[int, string](func(req int) (string, error) {
		return strconv.Itoa(req * 2), nil
	}, nil)
	req := NewRequesterPort[int, string](nil)

	require.NoError(t, req.Connect(resp))
	out, err := req.Request(21)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
	assert.EqualValues(t, 1, req.Status().Transactions)
	assert.EqualValues(t, 1, resp.Status().Transactions)
}

func TestRequesterPort_RequestWithoutConnectionFails(t *testing.T) {
	req := NewRequesterPort[int, string](nil)
	_, err := req.Request(1)
	assert.ErrorIs(t, err, superflowerr.ErrNotConnected)
}

func TestRequesterPort_ConnectingSecondDistinctResponderFails(t *testing.T) {
	resp1 := NewResponderPort[int, string](func(int) (string, error) { return "", nil }, nil)
	resp2 := NewResponderPort[int, string](func(int) (string, error) { return "", nil }, nil)
	req := NewRequesterPort[int, string](nil)

	require.NoError(t, req.Connect(resp1))
	err := req.Connect(resp2)
	assert.ErrorIs(t, err, superflowerr.ErrCardinalityViolation)
}

func TestRequesterPort_ConnectingSameResponderTwiceIsIdempotent(t *testing.T) {
	resp := NewResponderPort[int, string](func(int) (string, error) { return "", nil }, nil)
	req := NewRequesterPort[int, string](nil)

	require.NoError(t, req.Connect(resp))
	require.NoError(t, req.Connect(resp))
	assert.True(t, req.IsConnected())
}

func TestRequesterPort_WithRequesterVariantConvertsResponse(t *testing.T) {
	resp := NewResponderPort[int, int](func(req int) (int, error) { return req + 1, nil }, nil)
	req := NewRequesterPort[int, string](nil)
	WithRequesterVariant[int, string, int](req, strconv.Itoa)

	require.NoError(t, req.Connect(resp))
	out, err := req.Request(41)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestRequesterPort_DisconnectClearsConnection(t *testing.T) {
	resp := NewResponderPort[int, string](func(int) (string, error) { return "", nil }, nil)
	req := NewRequesterPort[int, string](nil)
	require.NoError(t, req.Connect(resp))

	req.Disconnect()
	assert.False(t, req.IsConnected())
	assert.False(t, resp.IsConnected())
}
