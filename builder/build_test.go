package builder

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/x"

	"github.com/FFI-no/superflow/config"
	"github.com/FFI-no/superflow/graph"
	"github.com/FFI-no/superflow/policy"
	"github.com/FFI-no/superflow/port"
	"github.com/FFI-no/superflow/proxel"
	"github.com/FFI-no/superflow/superflowerr"
)

// numberProxel is a minimal test proxel with one outport/inport pair, built
// from a "value" property, used to exercise Build's wiring end to end.
type numberProxel struct {
	proxel.Base
	out   *port.ProducerPort[int]
	in    *port.BufferedConsumerPort[int]
	value int
}

func newNumberProxel(props config.Properties) (proxel.Proxel, error) {
	value, err := config.Convert[int](props, "value")
	if err != nil {
		return nil, err
	}
	out := port.NewProducerPort[int](nil)
	in := port.NewBufferedConsumerPort[int](4, policy.Multi, policy.Blocking, policy.Leaky, nil)
	p := &numberProxel{out: out, in: in, value: value}
	p.Base = proxel.NewBase(map[string]port.Port{"out": out, "in": in})
	return p, nil
}

func (p *numberProxel) Start(context.Context) {}
func (p *numberProxel) Stop()                 {}

func failingFactory(config.Properties) (proxel.Proxel, error) {
	return nil, fmt.Errorf("boom")
}

type numberProps struct {
	Value int `json:"value"`
}

func newFactoryMap() *FactoryMap[config.Properties] {
	fm := NewFactoryMap[config.Properties]()
	fm.Register("number", newNumberProxel, x.NewType(reflect.TypeOf(numberProps{})))
	fm.Register("failing", failingFactory)
	return fm
}

func TestBuild_CreatesConfiguredProxel(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "number", Properties: config.Properties{"value": 1}},
		{ID: "b", Type: "number", Properties: config.Properties{"value": 2}},
	}

	g, err := Build(fm, configs, nil)
	require.NoError(t, err)

	a, err := graph.Get[*numberProxel](g, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.value)
}

func TestBuild_DuplicateIDFails(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "number", Properties: config.Properties{"value": 1}},
		{ID: "a", Type: "number", Properties: config.Properties{"value": 2}},
	}

	_, err := Build(fm, configs, nil)
	assert.ErrorIs(t, err, superflowerr.ErrDuplicateID)
}

func TestBuild_UnknownFactoryTypeFails(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "nonexistent", Properties: config.Properties{}},
	}

	_, err := Build(fm, configs, nil)
	assert.ErrorIs(t, err, superflowerr.ErrNotFound)
}

func TestBuild_FactoryErrorWrapsAsBuildError(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "failing", Properties: config.Properties{}},
	}

	_, err := Build(fm, configs, nil)
	assert.ErrorIs(t, err, superflowerr.ErrBuildError)
}

func TestBuild_PropertyValidationFailureSurfacesBuildError(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "number", Properties: config.Properties{"value": "not-an-int"}},
	}

	_, err := Build(fm, configs, nil)
	assert.ErrorIs(t, err, superflowerr.ErrBuildError)
}

func TestBuild_DisabledProxelIsSkippedAndConnectionsDropped(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "number", Properties: config.Properties{"value": 1}, Disabled: true},
		{ID: "b", Type: "number", Properties: config.Properties{"value": 2}},
	}
	connections := []ConnectionSpec{
		{LHSName: "a", LHSPort: "out", RHSName: "b", RHSPort: "in"},
	}

	g, err := Build(fm, configs, connections)
	require.NoError(t, err)

	_, getErr := graph.Get[*numberProxel](g, "a")
	assert.ErrorIs(t, getErr, superflowerr.ErrNotFound)
}

func TestBuild_ConnectionReferencingAnUndeclaredProxelFails(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "number", Properties: config.Properties{"value": 1}},
	}
	connections := []ConnectionSpec{
		{LHSName: "a", LHSPort: "out", RHSName: "typo-b", RHSPort: "in"},
	}

	_, err := Build(fm, configs, connections)
	assert.ErrorIs(t, err, superflowerr.ErrNotFound)
}

func TestBuild_ReplicationExpandsIDsAndPerReplicaProperties(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{
			ID:         "worker",
			Type:       "number",
			Properties: config.Properties{"@value": []any{10, 20, 30}},
			Replicas:   3,
		},
	}

	g, err := Build(fm, configs, nil)
	require.NoError(t, err)

	w0, err := graph.Get[*numberProxel](g, "worker_0")
	require.NoError(t, err)
	assert.Equal(t, 10, w0.value)

	w2, err := graph.Get[*numberProxel](g, "worker_2")
	require.NoError(t, err)
	assert.Equal(t, 30, w2.value)
}

func TestBuild_ReplicationConnectionBroadcastsOneToReplicas(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "source", Type: "number", Properties: config.Properties{"value": 1}},
		{ID: "worker", Type: "number", Properties: config.Properties{"@value": []any{0, 0}}, Replicas: 2},
	}
	connections := []ConnectionSpec{
		{LHSName: "source", LHSPort: "out", RHSName: "worker", RHSPort: "in"},
	}

	_, err := Build(fm, configs, connections)
	require.NoError(t, err)
}

func TestBuild_ConnectionArityMismatchFails(t *testing.T) {
	fm := newFactoryMap()
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Type: "number", Properties: config.Properties{"@value": []any{1, 2}}, Replicas: 2},
		{ID: "b", Type: "number", Properties: config.Properties{"@value": []any{1, 2, 3}}, Replicas: 3},
	}
	connections := []ConnectionSpec{
		{LHSName: "a", LHSPort: "out", RHSName: "b", RHSPort: "in"},
	}

	_, err := Build(fm, configs, connections)
	assert.ErrorIs(t, err, superflowerr.ErrConnectionArityMismatch)
}

func TestFlaggedProxels_ReturnsOnlyTrueFlagged(t *testing.T) {
	configs := []ProxelConfig[config.Properties]{
		{ID: "a", Properties: config.Properties{"diagnostics_only": true}},
		{ID: "b", Properties: config.Properties{"diagnostics_only": false}},
		{ID: "c", Properties: config.Properties{}},
	}

	assert.Equal(t, []string{"a"}, FlaggedProxels(configs, "diagnostics_only"))
}
