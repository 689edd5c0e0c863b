package builder

import "github.com/FFI-no/superflow/config"

// FlaggedProxels returns the id of every config whose Properties bag has
// propertyKey set to a truthy boolean - the surface-level "which proxels
// opted into this flag" query named in section 6's external interfaces
// (e.g. "which proxels declared themselves diagnostics-only").
func FlaggedProxels[P config.PropertyList](configs []ProxelConfig[P], propertyKey string) []string {
	var ids []string
	for _, cfg := range configs {
		raw, ok := cfg.Properties.Raw(propertyKey)
		if !ok {
			continue
		}
		if flag, ok := raw.(bool); ok && flag {
			ids = append(ids, cfg.ID)
		}
	}
	return ids
}
