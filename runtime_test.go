package superflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	superflow "github.com/FFI-no/superflow"
	"github.com/FFI-no/superflow/builder"
	"github.com/FFI-no/superflow/config"
	"github.com/FFI-no/superflow/examples/echo"
	"github.com/FFI-no/superflow/proxel"
)

func TestRuntime_ConnectWiresTwoBuiltProxelsTogether(t *testing.T) {
	svc := superflow.New(echoFactories())

	rt, err := svc.Build(superflow.GraphSpec{
		Proxels: []builder.ProxelConfig[config.Properties]{
			{ID: "a", Type: echo.Type},
			{ID: "b", Type: echo.Type, Properties: config.Properties{"prefix": "got: "}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, rt.Connect("a", "out", "b", "in"))

	require.NoError(t, rt.Start(context.Background()))
	defer rt.Shutdown(context.Background())

	a, err := superflow.Get[*echo.Proxel](rt, "a")
	require.NoError(t, err)

	a.Out.Send("hello")

	assert.Eventually(t, func() bool {
		return rt.Status()["b"].State != proxel.Undefined
	}, time.Second, time.Millisecond)
}

func TestRuntime_GetUnknownIDFails(t *testing.T) {
	svc := superflow.New(echoFactories())
	rt, err := svc.Build(superflow.GraphSpec{})
	require.NoError(t, err)

	_, err = superflow.Get[*echo.Proxel](rt, "nope")
	assert.Error(t, err)
}

func TestRuntime_ShutdownBeforeStartIsANoOp(t *testing.T) {
	svc := superflow.New(echoFactories())
	rt, err := svc.Build(superflow.GraphSpec{})
	require.NoError(t, err)

	assert.NoError(t, rt.Shutdown(context.Background()))
}
