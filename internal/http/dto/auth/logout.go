package auth

// LogoutResponse es la respuesta de POST /logout. Success siempre es true.
type LogoutResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
