package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Zim95/browseterm-server/internal/cache"
	"github.com/Zim95/browseterm-server/internal/metrics"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errCorrupt = errors.New("session: corrupt payload")

// Store gestiona sesiones. Seguro para uso concurrente; toda la
// atomicidad la da el backend (un comando por operación).
type Store struct {
	cache cache.Client
	cfg   Config
	newID func() string
}

// NewStore crea el store. Se construye una vez en el wiring y se inyecta.
func NewStore(c cache.Client, cfg Config) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.FaultPolicy == "" {
		cfg.FaultPolicy = FaultAbsent
	}
	return &Store{cache: c, cfg: cfg, newID: uuid.NewString}
}

// DefaultTTL retorna el TTL con el que se crean las sesiones.
func (s *Store) DefaultTTL() time.Duration { return s.cfg.TTL }

func (s *Store) key(id string) string { return s.cfg.Prefix + id }

func (s *Store) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("store"),
		logger.Component("session"),
		logger.Op(op),
	)
}

// Create guarda data bajo un id UUIDv4 nuevo con el TTL por defecto.
// No reintenta ante colisión.
func (s *Store) Create(ctx context.Context, data Data) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session: encode payload: %w", err)
	}

	id := s.newID()
	if err := s.cache.SetEX(ctx, s.key(id), string(payload), s.cfg.TTL); err != nil {
		s.log(ctx, "Create").Error("failed to store session", logger.UserID(data.UserInfo.ID), logger.Err(err))
		return "", fmt.Errorf("session: store: %w", err)
	}

	metrics.RecordSessionCreated()
	return id, nil
}

// Get retorna el payload o nil si no existe, está corrupto o el backend falla.
func (s *Store) Get(ctx context.Context, id string) *Data {
	d, err := s.get(ctx, id)
	if err != nil {
		s.log(ctx, "Get").Warn("session read failed", logger.SessionID(id), logger.Err(err))
		return nil
	}
	return d
}

// get distingue "no existe" (nil, nil) de corrupto o fallo de backend.
func (s *Store) get(ctx context.Context, id string) (*Data, error) {
	if id == "" {
		return nil, nil
	}
	raw, err := s.cache.Get(ctx, s.key(id))
	if cache.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Data
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return &d, nil
}

// TTL retorna -2 (no existe), -1 (sin expiración), 0 (expirada) o los
// segundos restantes. Un fallo del backend se reporta como -2.
func (s *Store) TTL(ctx context.Context, id string) int64 {
	ttl, err := s.ttl(ctx, id)
	if err != nil {
		s.log(ctx, "TTL").Warn("session ttl failed", logger.SessionID(id), logger.Err(err))
		return cache.TTLMissing
	}
	return ttl
}

func (s *Store) ttl(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return cache.TTLMissing, nil
	}
	return s.cache.TTL(ctx, s.key(id))
}

// Extend renueva el TTL sin reescribir el payload. ttl <= 0 usa el TTL por defecto.
func (s *Store) Extend(ctx context.Context, id string, ttl time.Duration) bool {
	if id == "" {
		return false
	}
	if ttl <= 0 {
		ttl = s.cfg.TTL
	}
	ok, err := s.cache.Expire(ctx, s.key(id), ttl)
	if err != nil {
		s.log(ctx, "Extend").Warn("session extend failed", logger.SessionID(id), logger.Err(err))
		ok = false
	}
	metrics.RecordSessionExtended(ok)
	return ok
}

// Delete elimina la sesión. true si existía. Idempotente.
func (s *Store) Delete(ctx context.Context, id string) bool {
	return s.delete(ctx, id, "explicit")
}

func (s *Store) delete(ctx context.Context, id, reason string) bool {
	if id == "" {
		return false
	}
	ok, err := s.cache.Delete(ctx, s.key(id))
	if err != nil {
		s.log(ctx, "Delete").Warn("session delete failed", logger.SessionID(id), logger.Err(err))
		return false
	}
	if ok {
		metrics.RecordSessionDeleted(reason)
	}
	return ok
}

// Validate no renueva el TTL. Una sesión con TTL 0 se elimina antes de
// reportarla inválida.
func (s *Store) Validate(ctx context.Context, id string) (Validation, error) {
	log := s.log(ctx, "Validate")

	ttl, err := s.ttl(ctx, id)
	if err != nil {
		log.Warn("session ttl failed", logger.SessionID(id), logger.Err(err))
		metrics.RecordSessionValidation("error")
		if s.cfg.FaultPolicy == FaultFail {
			return Validation{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return Validation{IsValid: false}, nil
	}

	switch {
	case ttl == cache.TTLMissing:
		metrics.RecordSessionValidation("missing")
		return Validation{IsValid: false}, nil
	case ttl == 0:
		s.delete(ctx, id, "reaped")
		metrics.RecordSessionValidation("expired")
		return Validation{IsValid: false}, nil
	}

	data, err := s.get(ctx, id)
	if err != nil {
		if errors.Is(err, errCorrupt) {
			log.Warn("corrupt session payload", logger.SessionID(id), logger.Err(err))
			metrics.RecordSessionValidation("corrupt")
			return Validation{IsValid: false}, nil
		}
		log.Warn("session read failed", logger.SessionID(id), logger.Err(err))
		metrics.RecordSessionValidation("error")
		if s.cfg.FaultPolicy == FaultFail {
			return Validation{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return Validation{IsValid: false}, nil
	}
	if data == nil {
		// Expiró entre TTL y GET
		metrics.RecordSessionValidation("missing")
		return Validation{IsValid: false}, nil
	}

	metrics.RecordSessionValidation("valid")
	return Validation{IsValid: true, SessionData: data, TTL: &ttl}, nil
}
