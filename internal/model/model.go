package model

// Package model contains domain models/data structures.
// Models are pure structs with no database-specific dependencies or tags,
// so they can be used across layers (HTTP, service, storage) without
// coupling to persistence.

// Entity is implemented by every persisted domain model. The generic
// repository and service layers are parameterized over it.
type Entity interface {
	EntityID() string
}
