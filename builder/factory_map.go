// Package builder implements the declarative graph constructor: a registry
// of named proxel factories (FactoryMap), a list of desired proxel
// instances (ProxelConfig) and wires (ConnectionSpec), and Build, which
// turns the two into a running graph.Graph - grounded on the original C++
// factory_map.h/proxel_config.h/connection_spec.h/graph_factory.h.
package builder

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/structology/conv"
	"github.com/viant/x"

	"github.com/FFI-no/superflow/config"
	"github.com/FFI-no/superflow/proxel"
	"github.com/FFI-no/superflow/superflowerr"
)

// Factory builds one Proxel from its decoded properties bag.
type Factory[P config.PropertyList] func(P) (proxel.Proxel, error)

type factoryEntry[P config.PropertyList] struct {
	factory   Factory[P]
	propsType *x.Type
}

// FactoryMap maps a proxel type name to the Factory that builds it,
// grounded on factory_map.h's name -> Factory<PropertyList> map. Register
// additionally accepts the factory's declared property-struct type so Build
// can validate+decode a config's Properties bag before invoking the
// factory, the same DataTypeIniter-style hook viant-fluxor's
// extension.Actions.Register uses for action services.
type FactoryMap[P config.PropertyList] struct {
	mu      sync.RWMutex
	entries map[string]factoryEntry[P]
}

// NewFactoryMap creates an empty FactoryMap.
func NewFactoryMap[P config.PropertyList]() *FactoryMap[P] {
	return &FactoryMap[P]{entries: make(map[string]factoryEntry[P])}
}

// Register adds factory under typeName. propsType, if given, is a
// viant/x.Type describing the Go struct the properties bag should decode
// into; Build uses it purely for validation (a field-level decode error
// surfaces as a BuildError) and does not change the factory's own P
// argument.
func (m *FactoryMap[P]) Register(typeName string, factory Factory[P], propsType ...*x.Type) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := factoryEntry[P]{factory: factory}
	if len(propsType) > 0 {
		entry.propsType = propsType[0]
	}
	m.entries[typeName] = entry
}

func (m *FactoryMap[P]) get(typeName string) (factoryEntry[P], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[typeName]
	if !ok {
		return factoryEntry[P]{}, superflowerr.Wrap(superflowerr.ErrNotFound, "", "", typeName, "no factory registered for this type")
	}
	return entry, nil
}

// validate decodes props into a fresh instance of entry's declared
// propsType, if any, returning a field-level error on mismatch. It works
// against the config.PropertyList interface (not a concrete map type) by
// first flattening it into a plain map via Keys/Raw.
func (e factoryEntry[P]) validate(props P) error {
	if e.propsType == nil {
		return nil
	}

	flat := make(map[string]any)
	for _, k := range props.Keys() {
		if v, ok := props.Raw(k); ok {
			flat[k] = v
		}
	}

	converter := conv.NewConverter(conv.DefaultOptions())
	instance := reflect.New(e.propsType.Type).Interface()
	if err := converter.Convert(flat, instance); err != nil {
		return fmt.Errorf("properties do not match %s: %w", e.propsType.Type, err)
	}
	return nil
}
