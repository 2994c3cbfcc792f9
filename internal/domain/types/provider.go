// Package types define tipos de dominio compartidos entre paquetes.
package types

import "strings"

// Provider identifica un proveedor OAuth soportado. El conjunto es cerrado.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// Providers lista los proveedores soportados en orden estable.
var Providers = []Provider{ProviderGoogle, ProviderGitHub}

// IsValid retorna true si el proveedor pertenece al conjunto soportado.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderGitHub:
		return true
	}
	return false
}

func (p Provider) String() string { return string(p) }

// ParseProvider normaliza (trim + lower) y valida el nombre de un proveedor.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	return p, p.IsValid()
}
