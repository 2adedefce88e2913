package repository

// Package repository contains the data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this
// directory and contain persistence operations only, no business logic.

import (
	"context"
	"errors"

	"inscode/internal/model"
)

// ErrNotFound is returned when a row does not exist. Implementations
// normalize their driver-specific "no rows" errors into it.
var ErrNotFound = errors.New("record not found")

// DefaultPerPage is the page size used when a query does not specify one.
const DefaultPerPage = 10

// Repository defines generic CRUD data access for a domain model.
type Repository[T model.Entity] interface {
	// Create inserts a new record and returns the stored value
	// (may include values set by the database).
	Create(ctx context.Context, ent *T) (*T, error)

	// FindByID returns a record by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*T, error)

	// Update persists the given record. Returns ErrNotFound if the row
	// no longer exists.
	Update(ctx context.Context, ent *T) (*T, error)

	// Delete removes a record by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// List returns a page of records and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[T], error)

	// Filter returns a page of records matching the given filter.
	// Keys outside the implementation's allow-list produce a field error.
	Filter(ctx context.Context, f Filter, pq PageQuery) (*PageResult[T], error)
}

// Filter holds field/value pairs restricting a query. Each
// implementation maps allowed keys to columns; everything else is
// rejected so callers cannot probe arbitrary columns.
type Filter map[string]any

// PageQuery holds page-number pagination parameters.
type PageQuery struct {
	Page    int
	PerPage int
}

// Normalize coerces out-of-range values: page below 1 becomes 1 and a
// non-positive per-page becomes def.
func (q PageQuery) Normalize(def int) PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		if def <= 0 {
			def = DefaultPerPage
		}
		q.PerPage = def
	}
	return q
}

// Limit returns the SQL LIMIT for the query.
func (q PageQuery) Limit() int { return q.PerPage }

// Offset returns the SQL OFFSET for the query.
func (q PageQuery) Offset() int { return (q.Page - 1) * q.PerPage }

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items   []T
	Total   int
	Page    int
	PerPage int
}

// HasNext reports whether rows exist beyond this page.
func (r *PageResult[T]) HasNext() bool { return r.Page*r.PerPage < r.Total }

// HasPrevious reports whether this is not the first page.
func (r *PageResult[T]) HasPrevious() bool { return r.Page > 1 }
