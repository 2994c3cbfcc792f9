package types

// UserInfo es el perfil normalizado que devuelve un proveedor OAuth.
// ProviderID siempre es string aunque el proveedor lo envíe numérico.
// Los campos opcionales son nil cuando el proveedor no los envía o vienen vacíos.
type UserInfo struct {
	ProviderID        string   `json:"provider_id"`
	Name              *string  `json:"name"`
	Email             *string  `json:"email"`
	ProfilePictureURL *string  `json:"profile_picture_url"`
	Provider          Provider `json:"provider"`
}

// OptionalString devuelve nil para "" y un puntero al valor en otro caso.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref devuelve "" para nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
