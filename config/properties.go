// Package config implements the runtime's configuration contract: an
// opaque bag of named properties that proxel factories and the builder
// consult by key, decoded on demand into whatever type the caller expects.
// It is the concrete, in-memory PropertyList the original leaves abstract
// (a template parameter of FactoryMap/ProxelConfig), using
// github.com/viant/structology/conv for tag-driven type conversion the same
// way viant-fluxor's runtime/execution.Session.TypedValue does.
package config

import (
	"fmt"

	"github.com/viant/structology/conv"
)

// PropertyList is the contract every proxel-configuration property bag
// implements: "does this key exist", "give me its value as T", and the two
// introspection/copy operations builder.Build's replication expansion needs
// (Keys, With) without depending on a concrete map type.
type PropertyList interface {
	// HasKey reports whether key is present in the bag.
	HasKey(key string) bool

	// Raw returns the key's value and whether it was present, without any
	// type conversion.
	Raw(key string) (any, bool)

	// Keys returns every key present in the bag, in no particular order.
	Keys() []string

	// With returns a copy of the bag with key set to value.
	With(key string, value any) PropertyList
}

// Properties is the default in-memory PropertyList, backed by a plain
// map[string]interface{} the way viant-fluxor's model/state maps are.
type Properties map[string]any

// HasKey implements PropertyList.
func (p Properties) HasKey(key string) bool {
	_, ok := p[key]
	return ok
}

// Raw implements PropertyList.
func (p Properties) Raw(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// Keys implements PropertyList.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// With implements PropertyList.
func (p Properties) With(key string, value any) PropertyList {
	out := make(Properties, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

// converter is shared across Convert calls; conv.Converter is safe for
// concurrent use the same way viant-fluxor shares one *conv.Converter per
// Session/Service instance.
var converter = conv.NewConverter(conv.DefaultOptions())

// Convert decodes the value at key into T, returning an error if the key is
// absent or the value cannot be converted. Go cannot express this as a
// PropertyList method (methods cannot carry their own type parameters), so
// it is a free function the way github.com/viant/structology/conv itself is
// used free-standing in viant-fluxor's Session.TypedValue.
func Convert[T any](p PropertyList, key string) (T, error) {
	var out T
	raw, ok := p.Raw(key)
	if !ok {
		return out, fmt.Errorf("config: missing property %q", key)
	}
	if err := converter.Convert(raw, &out); err != nil {
		return out, fmt.Errorf("config: property %q: %w", key, err)
	}
	return out, nil
}

// ConvertOrDefault is Convert, falling back to def when the key is absent or
// conversion fails.
func ConvertOrDefault[T any](p PropertyList, key string, def T) T {
	v, err := Convert[T](p, key)
	if err != nil {
		return def
	}
	return v
}
