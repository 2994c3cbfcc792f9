// Package session implementa el store de sesiones server-side sobre cache.Client.
//
// Una sesión es una key "<prefix><uuid>" con el payload JSON de Data.
// La existencia de la key con TTL vigente es la única fuente de verdad de
// "autenticado"; no hay estado local por réplica.
package session

import (
	"errors"
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
)

// Data es el payload guardado en la sesión. Se escribe una vez al crearla
// y no se modifica parcialmente después.
type Data struct {
	UserInfo                repository.User         `json:"user_info"`
	SubscriptionInfo        repository.Subscription `json:"subscription_info"`
	CurrentSubscriptionPlan repository.Plan         `json:"current_subscription_plan"`
}

// Validation es el resultado de Validate.
type Validation struct {
	IsValid     bool   `json:"is_valid"`
	SessionData *Data  `json:"session_data,omitempty"`
	TTL         *int64 `json:"ttl,omitempty"`
}

// FaultPolicy decide qué ve el caller cuando el backend falla.
type FaultPolicy string

const (
	// FaultAbsent trata un backend caído como "sesión inexistente".
	FaultAbsent FaultPolicy = "absent"
	// FaultFail propaga ErrStoreUnavailable desde Validate.
	FaultFail FaultPolicy = "fail"
)

// ParseFaultPolicy acepta "absent" | "fail"; cualquier otro valor => FaultAbsent.
func ParseFaultPolicy(s string) FaultPolicy {
	if FaultPolicy(s) == FaultFail {
		return FaultFail
	}
	return FaultAbsent
}

// Config del store.
type Config struct {
	Prefix      string        // default "session:"
	TTL         time.Duration // TTL al crear; default 24h
	FaultPolicy FaultPolicy
}

const (
	DefaultPrefix = "session:"
	DefaultTTL    = 24 * time.Hour
)

// ErrStoreUnavailable se devuelve desde Validate con FaultFail.
var ErrStoreUnavailable = errors.New("session: store unavailable")
