package sites

import (
	"sort"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

// Registry resolves site adapters by their site identifier.
type Registry struct {
	adapters map[string]port.SiteAdapterPort
}

func NewRegistry(adapters ...port.SiteAdapterPort) *Registry {
	registry := &Registry{adapters: make(map[string]port.SiteAdapterPort, len(adapters))}
	for _, adapter := range adapters {
		registry.adapters[adapter.Site()] = adapter
	}
	return registry
}

// Resolve returns the adapter registered for the site, or
// domain.ErrUnknownSite when none is.
func (r *Registry) Resolve(site string) (port.SiteAdapterPort, error) {
	adapter, ok := r.adapters[site]
	if !ok {
		return nil, domain.ErrUnknownSite
	}
	return adapter, nil
}

// Sites lists registered site identifiers in a stable order.
func (r *Registry) Sites() []string {
	sites := make([]string, 0, len(r.adapters))
	for site := range r.adapters {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}
