package builder

import (
	"fmt"

	"github.com/FFI-no/superflow/config"
	"github.com/FFI-no/superflow/graph"
	"github.com/FFI-no/superflow/superflowerr"
)

type expandedConfig[P config.PropertyList] struct {
	id         string
	typeName   string
	properties P
}

type baseInfo struct {
	replicaIDs []string
	disabled   bool
}

// Build expands replication and disabled-proxel filtering, instantiates
// every remaining proxel through factoryMap in configuration order, wires
// every connection (after the same filtering plus fan-out/fan-in
// expansion), and returns the resulting graph.Graph - the original C++
// createGraph/createProxelsFromConfig, plus the two optional declarative
// features from section 4.8.
func Build[P config.PropertyList](
	factoryMap *FactoryMap[P],
	configs []ProxelConfig[P],
	connections []ConnectionSpec,
) (*graph.Graph, error) {
	bases := make(map[string]*baseInfo, len(configs))
	var expanded []expandedConfig[P]

	for _, cfg := range configs {
		if _, exists := bases[cfg.ID]; exists {
			return nil, superflowerr.Wrap(superflowerr.ErrDuplicateID, cfg.ID, "", "", "")
		}

		info := &baseInfo{disabled: cfg.Disabled}
		bases[cfg.ID] = info

		if cfg.Disabled {
			continue
		}

		n := cfg.replicaCount()
		if n == 1 {
			info.replicaIDs = []string{cfg.ID}
			expanded = append(expanded, expandedConfig[P]{id: cfg.ID, typeName: cfg.Type, properties: cfg.Properties})
			continue
		}

		for i := 0; i < n; i++ {
			id := fmt.Sprintf("%s_%d", cfg.ID, i)
			info.replicaIDs = append(info.replicaIDs, id)
			props, err := perReplicaProperties(cfg.Properties, i, n)
			if err != nil {
				return nil, superflowerr.Wrap(superflowerr.ErrBuildError, cfg.ID, "", cfg.Type, err.Error())
			}
			expanded = append(expanded, expandedConfig[P]{id: id, typeName: cfg.Type, properties: props})
		}
	}

	g := graph.New()

	for _, ec := range expanded {
		entry, err := factoryMap.get(ec.typeName)
		if err != nil {
			return nil, superflowerr.Wrap(superflowerr.ErrNotFound, ec.id, "", ec.typeName, "")
		}
		if err := entry.validate(ec.properties); err != nil {
			return nil, superflowerr.Wrap(superflowerr.ErrBuildError, ec.id, "", ec.typeName, err.Error())
		}

		p, err := entry.factory(ec.properties)
		if err != nil {
			return nil, superflowerr.Wrap(superflowerr.ErrBuildError, ec.id, "", ec.typeName, err.Error())
		}
		if err := g.Add(ec.id, p); err != nil {
			return nil, err
		}
	}

	for _, conn := range connections {
		if err := connectOne(g, bases, conn); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// perReplicaProperties strips the "@"-marker from any property whose value
// is a []any of length replicaCount, selecting index i for this replica;
// every other property is passed through unchanged.
func perReplicaProperties[P config.PropertyList](props P, index, replicaCount int) (P, error) {
	var current config.PropertyList = props

	for _, key := range props.Keys() {
		if len(key) == 0 || key[0] != replicaMarkerPrefix[0] {
			continue
		}
		raw, _ := props.Raw(key)
		values, ok := raw.([]any)
		if !ok || len(values) != replicaCount {
			var zero P
			return zero, fmt.Errorf("replicated property %q must be a list of %d values", key, replicaCount)
		}
		current = current.With(key[1:], values[index])
	}

	out, ok := current.(P)
	if !ok {
		var zero P
		return zero, fmt.Errorf("replicated properties lost their concrete type")
	}
	return out, nil
}

type endpoint struct {
	proxelID string
	port     string
}

func connectOne(g *graph.Graph, bases map[string]*baseInfo, conn ConnectionSpec) error {
	lhsInfo, lhsKnown := bases[conn.LHSName]
	if !lhsKnown {
		return superflowerr.Wrap(superflowerr.ErrNotFound, conn.LHSName, conn.LHSPort, "", "connection references an undeclared proxel")
	}
	rhsInfo, rhsKnown := bases[conn.RHSName]
	if !rhsKnown {
		return superflowerr.Wrap(superflowerr.ErrNotFound, conn.RHSName, conn.RHSPort, "", "connection references an undeclared proxel")
	}

	if lhsInfo.disabled || rhsInfo.disabled {
		return nil
	}

	lhs, err := expandSide(conn.LHSName, lhsInfo, conn.lhsPorts())
	if err != nil {
		return err
	}
	rhs, err := expandSide(conn.RHSName, rhsInfo, conn.rhsPorts())
	if err != nil {
		return err
	}

	pairs, err := zip(lhs, rhs)
	if err != nil {
		return superflowerr.Wrap(superflowerr.ErrConnectionArityMismatch, conn.LHSName, conn.LHSPort, "", err.Error())
	}

	for _, pair := range pairs {
		if err := g.Connect(pair.lhs.proxelID, pair.lhs.port, pair.rhs.proxelID, pair.rhs.port); err != nil {
			return err
		}
	}
	return nil
}

func expandSide(name string, info *baseInfo, ports []string) ([]endpoint, error) {
	replicated := len(info.replicaIDs) > 1

	if replicated {
		if len(ports) > 1 {
			return nil, superflowerr.Wrap(superflowerr.ErrConnectionArityMismatch, name, "", "", "cannot combine a replicated proxel with an explicit port list")
		}
		endpoints := make([]endpoint, 0, len(info.replicaIDs))
		for _, id := range info.replicaIDs {
			endpoints = append(endpoints, endpoint{proxelID: id, port: ports[0]})
		}
		return endpoints, nil
	}

	id := name
	if len(info.replicaIDs) == 1 {
		id = info.replicaIDs[0]
	}
	endpoints := make([]endpoint, 0, len(ports))
	for _, port := range ports {
		endpoints = append(endpoints, endpoint{proxelID: id, port: port})
	}
	return endpoints, nil
}

type endpointPair struct {
	lhs, rhs endpoint
}

// zip implements the fan-out/fan-in pairing rule: equal-length sides zip
// pairwise, a length-1 side broadcasts to the other, anything else is an
// arity mismatch.
func zip(lhs, rhs []endpoint) ([]endpointPair, error) {
	switch {
	case len(lhs) == len(rhs):
		pairs := make([]endpointPair, len(lhs))
		for i := range lhs {
			pairs[i] = endpointPair{lhs[i], rhs[i]}
		}
		return pairs, nil
	case len(lhs) == 1:
		pairs := make([]endpointPair, len(rhs))
		for i := range rhs {
			pairs[i] = endpointPair{lhs[0], rhs[i]}
		}
		return pairs, nil
	case len(rhs) == 1:
		pairs := make([]endpointPair, len(lhs))
		for i := range lhs {
			pairs[i] = endpointPair{lhs[i], rhs[0]}
		}
		return pairs, nil
	default:
		return nil, fmt.Errorf("cannot connect %d ports to %d ports", len(lhs), len(rhs))
	}
}
