package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inscode/internal/apperror"
	"inscode/internal/http/permission"
	"inscode/internal/model"
	"inscode/internal/repository"
	"inscode/internal/serializer"
	"inscode/internal/service"
	"inscode/internal/transport"
)

// Actions selects which CRUD endpoints a Resource registers.
type Actions uint8

const (
	ActionCreate Actions = 1 << iota
	ActionRetrieve
	ActionList
	ActionUpdate
	ActionDelete

	ActionsAll = ActionCreate | ActionRetrieve | ActionList | ActionUpdate | ActionDelete
	// ActionsReadOnly registers only the safe endpoints.
	ActionsReadOnly = ActionRetrieve | ActionList
)

// FilterSpec maps a query parameter onto a repository filter key.
// Parse may be nil for plain string filters.
type FilterSpec struct {
	Param string
	Key   string
	Parse func(raw string) (any, error)
}

// Resource wires a CrudService into REST endpoints. T is the domain
// model, C the create request body, U the partial-update body.
//
// Only Svc, NewEntity and ApplyPatch are required for the actions that
// use them; everything else has a sensible default.
type Resource[T model.Entity, C any, U any] struct {
	Svc service.CrudService[T]

	// NewEntity builds the domain model from a validated create body.
	NewEntity func(c *fiber.Ctx, req *C) (*T, error)

	// ApplyPatch copies the set fields of a validated update body onto
	// the loaded entity.
	ApplyPatch func(req *U, ent *T) error

	// Required lists body keys that must be present on create, checked
	// against the raw payload before typed validation so an absent key
	// reports "this field is required" even when the typed rule would
	// say something else.
	Required []string

	// Filters lists the query parameters list requests may filter by.
	Filters []FilterSpec

	// LookupParam is the route parameter holding the ID. Default "id".
	LookupParam string

	// PerPage overrides the default page size.
	PerPage int

	// Serialize converts an entity to its response shape. Defaults to
	// returning the entity itself.
	Serialize func(*T) any

	// ObjectPermission runs after the entity is loaded, before it is
	// returned or mutated. Nil means no per-object check.
	ObjectPermission func(c *fiber.Ctx, ent *T) error
}

// Register attaches the selected actions under path. perms guard every
// registered endpoint.
func (r *Resource[T, C, U]) Register(router fiber.Router, path string, actions Actions, perms ...permission.Permission) {
	guard := permission.Require(perms...)
	item := path + "/:" + r.lookupParam()

	if actions&ActionList != 0 {
		router.Get(path, guard, r.list)
	}
	if actions&ActionCreate != 0 {
		router.Post(path, guard, r.create)
	}
	if actions&ActionRetrieve != 0 {
		router.Get(item, guard, r.retrieve)
	}
	if actions&ActionUpdate != 0 {
		router.Patch(item, guard, r.update)
	}
	if actions&ActionDelete != 0 {
		router.Delete(item, guard, r.delete)
	}
}

func (r *Resource[T, C, U]) lookupParam() string {
	if r.LookupParam != "" {
		return r.LookupParam
	}
	return "id"
}

func (r *Resource[T, C, U]) perPage() int {
	if r.PerPage > 0 {
		return r.PerPage
	}
	return repository.DefaultPerPage
}

func (r *Resource[T, C, U]) serialize(ent *T) any {
	if r.Serialize != nil {
		return r.Serialize(ent)
	}
	return ent
}

// lookupID validates the route parameter as a UUID before it reaches
// the database.
func (r *Resource[T, C, U]) lookupID(c *fiber.Ctx) (string, error) {
	id := c.Params(r.lookupParam())
	if _, err := uuid.Parse(id); err != nil {
		return "", apperror.BadRequest("invalid id format").WithCode("INVALID_ID")
	}
	return id, nil
}

func (r *Resource[T, C, U]) create(c *fiber.Ctx) error {
	if len(r.Required) > 0 {
		var raw map[string]any
		if err := serializer.DecodeBytes(c.Body(), &raw); err != nil {
			return err
		}
		if err := serializer.VerifyRequired(raw, r.Required...); err != nil {
			return err
		}
	}

	var req C
	if err := serializer.DecodeValid(c.Body(), &req); err != nil {
		return err
	}

	ent, err := r.NewEntity(c, &req)
	if err != nil {
		return err
	}

	stored, err := r.Svc.Create(c.UserContext(), ent)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(r.serialize(stored))
}

func (r *Resource[T, C, U]) retrieve(c *fiber.Ctx) error {
	id, err := r.lookupID(c)
	if err != nil {
		return err
	}

	ent, err := r.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if r.ObjectPermission != nil {
		if err := r.ObjectPermission(c, ent); err != nil {
			return err
		}
	}
	return c.JSON(r.serialize(ent))
}

func (r *Resource[T, C, U]) list(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	perPage, err := queryInt(c, "per_page", r.perPage())
	if err != nil {
		return err
	}
	pq := repository.PageQuery{Page: page, PerPage: perPage}

	f := repository.Filter{}
	for _, spec := range r.Filters {
		raw := c.Query(spec.Param)
		if raw == "" {
			continue
		}
		if spec.Parse == nil {
			f[spec.Key] = raw
			continue
		}
		v, err := spec.Parse(raw)
		if err != nil {
			return apperror.BadRequest("invalid filter value", apperror.FieldError{
				Field:   spec.Param,
				Message: err.Error(),
			})
		}
		f[spec.Key] = v
	}
	if len(f) == 0 {
		f = nil
	}

	res, err := r.Svc.List(c.UserContext(), f, pq)
	if err != nil {
		return err
	}
	return c.JSON(transport.NewPage(res, r.serialize))
}

func (r *Resource[T, C, U]) update(c *fiber.Ctx) error {
	id, err := r.lookupID(c)
	if err != nil {
		return err
	}

	var req U
	if err := serializer.DecodeValid(c.Body(), &req); err != nil {
		return err
	}

	ent, err := r.Svc.Update(c.UserContext(), id, func(ent *T) error {
		if r.ObjectPermission != nil {
			if err := r.ObjectPermission(c, ent); err != nil {
				return err
			}
		}
		return r.ApplyPatch(&req, ent)
	})
	if err != nil {
		return err
	}
	return c.JSON(r.serialize(ent))
}

func (r *Resource[T, C, U]) delete(c *fiber.Ctx) error {
	id, err := r.lookupID(c)
	if err != nil {
		return err
	}

	if r.ObjectPermission != nil {
		ent, err := r.Svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		if err := r.ObjectPermission(c, ent); err != nil {
			return err
		}
	}

	if err := r.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// queryInt is a strict variant of fiber's QueryInt that rejects junk
// instead of silently defaulting.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.BadRequest("invalid "+key, apperror.FieldError{
			Field:   key,
			Message: "must be an integer",
		})
	}
	return v, nil
}
