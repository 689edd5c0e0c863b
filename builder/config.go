package builder

import "github.com/FFI-no/superflow/config"

// replicaMarkerPrefix flags a property key whose value is a list of N items
// - one per replica - for a ProxelConfig declaring Replicas == N. Each
// replica receives the key (with the marker stripped) set to its own item
// instead of the list.
const replicaMarkerPrefix = "@"

// ProxelConfig describes one desired proxel instance: which factory builds
// it (Type), its properties bag, and the two optional declarative features
// - replication and disabling - grounded on the original C++ proxel_config.h
// plus the replication/disabled-proxel features from section 4.8.
type ProxelConfig[P config.PropertyList] struct {
	ID         string
	Type       string
	Properties P

	// Replicas, if > 1, expands this single config into Replicas proxels
	// with ids "{ID}_{idx}" (idx from 0). A property key prefixed with "@"
	// whose value is a []any of length Replicas supplies a distinct,
	// unprefixed value per replica; every other property is shared as-is.
	Replicas int

	// Disabled proxels are not built, and any ConnectionSpec naming this
	// config's ID (on either side) is silently dropped.
	Disabled bool
}

func (c ProxelConfig[P]) replicaCount() int {
	if c.Replicas < 1 {
		return 1
	}
	return c.Replicas
}

// ConnectionSpec names one wire between two proxels' ports, grounded on
// connection_spec.h, extended with the fan-out/fan-in port-list syntax from
// section 4.8: LHSPorts/RHSPorts, if non-empty, take precedence over the
// single-port field and designate multiple ports on that side's proxel.
type ConnectionSpec struct {
	LHSName  string
	LHSPort  string
	LHSPorts []string

	RHSName  string
	RHSPort  string
	RHSPorts []string
}

func (s ConnectionSpec) lhsPorts() []string {
	if len(s.LHSPorts) > 0 {
		return s.LHSPorts
	}
	return []string{s.LHSPort}
}

func (s ConnectionSpec) rhsPorts() []string {
	if len(s.RHSPorts) > 0 {
		return s.RHSPorts
	}
	return []string{s.RHSPort}
}
