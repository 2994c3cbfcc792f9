package oauth

import (
	"github.com/Zim95/browseterm-server/internal/domain/types"
)

// Registry mapea cada proveedor a su UserInfoService.
type Registry struct {
	services map[types.Provider]*UserInfoService
}

// NewRegistry crea un registry con los services dados. Un proveedor repetido
// reemplaza al anterior.
func NewRegistry(services ...*UserInfoService) *Registry {
	r := &Registry{services: make(map[types.Provider]*UserInfoService, len(services))}
	for _, s := range services {
		if s != nil {
			r.services[s.Provider()] = s
		}
	}
	return r
}

// Get retorna el service del proveedor.
func (r *Registry) Get(p types.Provider) (*UserInfoService, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.services[p]
	return s, ok
}

// Providers lista los proveedores registrados en el orden de types.Providers.
func (r *Registry) Providers() []types.Provider {
	var out []types.Provider
	for _, p := range types.Providers {
		if _, ok := r.Get(p); ok {
			out = append(out, p)
		}
	}
	return out
}
