package service

// Package service holds the use-case layer. Crud provides the generic
// create/read/update/delete/list operations over a repository; resource
// services embed it and plug behavior in through its hooks.

import (
	"context"
	"errors"

	"inscode/internal/apperror"
	"inscode/internal/model"
	"inscode/internal/repository"
)

// CrudService is the contract the generic HTTP resource handler works
// against. Any type embedding Crud satisfies it.
type CrudService[T model.Entity] interface {
	Create(ctx context.Context, ent *T) (*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f repository.Filter, pq repository.PageQuery) (*repository.PageResult[T], error)
}

// Crud implements CrudService on top of a repository. Name is used in
// error messages ("project not found"). The hooks run before the
// repository call and may mutate the entity or reject the operation.
type Crud[T model.Entity] struct {
	Name string
	Repo repository.Repository[T]

	BeforeCreate func(ctx context.Context, ent *T) error
	BeforeUpdate func(ctx context.Context, ent *T) error
}

// Create runs the create hook and inserts the entity.
func (s *Crud[T]) Create(ctx context.Context, ent *T) (*T, error) {
	if s.BeforeCreate != nil {
		if err := s.BeforeCreate(ctx, ent); err != nil {
			return nil, err
		}
	}
	out, err := s.Repo.Create(ctx, ent)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return out, nil
}

// Get returns a single entity by ID.
func (s *Crud[T]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, apperror.BadRequest("id is required")
	}
	out, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return out, nil
}

// Update loads the entity, applies the mutation and persists it. The
// apply callback carries the partial-update semantics: it sets only the
// fields present in the request.
func (s *Crud[T]) Update(ctx context.Context, id string, apply func(*T) error) (*T, error) {
	ent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apply != nil {
		if err := apply(ent); err != nil {
			return nil, err
		}
	}
	if s.BeforeUpdate != nil {
		if err := s.BeforeUpdate(ctx, ent); err != nil {
			return nil, err
		}
	}
	out, err := s.Repo.Update(ctx, ent)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return out, nil
}

// Delete removes the entity by ID. Deleting an absent entity is a not
// found error at this layer even though the repository tolerates it.
func (s *Crud[T]) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return s.mapErr(err)
	}
	return nil
}

// List returns a page of entities, optionally restricted by a filter.
func (s *Crud[T]) List(ctx context.Context, f repository.Filter, pq repository.PageQuery) (*repository.PageResult[T], error) {
	pq = pq.Normalize(repository.DefaultPerPage)
	if len(f) > 0 {
		return s.Repo.Filter(ctx, f, pq)
	}
	return s.Repo.List(ctx, pq)
}

func (s *Crud[T]) mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(s.label() + " not found")
	}
	return err
}

func (s *Crud[T]) label() string {
	if s.Name != "" {
		return s.Name
	}
	return "record"
}
