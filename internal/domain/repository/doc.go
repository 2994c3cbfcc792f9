// Package repository define las interfaces de repositorio de dominio.
//
// Son contratos de negocio, independientes del almacenamiento. Las
// implementaciones viven en internal/store/pg y internal/store/memory.
//
//	┌──────────────────────────────────────────────┐
//	│   services/account  ·  services/auth         │
//	└──────────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌──────────────────────────────────────────────┐
//	│  domain/repository (interfaces)              │
//	│  UserRepository, SubscriptionRepository      │
//	└──────────────────────────────────────────────┘
//	              │                  │
//	              ▼                  ▼
//	      ┌─────────────┐    ┌─────────────┐
//	      │  store/pg   │    │ store/memory│
//	      └─────────────┘    └─────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
