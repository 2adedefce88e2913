package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"inscode/internal/config"
	"inscode/internal/http/permission"
	"inscode/internal/model"
	"inscode/internal/service"
	"inscode/internal/timeutil"
)

type projectCreateRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	OwnerID     string   `json:"owner_id" validate:"omitempty,uuid4"`
	TagIDs      []string `json:"tag_ids" validate:"omitempty,dive,uuid4"`
}

type projectUpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	TagIDs      *[]string `json:"tag_ids" validate:"omitempty,dive,uuid4"`
}

type projectResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	OwnerID     string   `json:"owner_id"`
	TagIDs      []string `json:"tag_ids"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// NewProjectResource builds the /projects endpoints. Timestamps are
// rendered in cfg.DatetimeFormat in loc; the created_after filter is
// parsed with the same layout.
func NewProjectResource(svc service.CrudService[model.Project], cfg *config.AppConfig, loc *time.Location) *Resource[model.Project, projectCreateRequest, projectUpdateRequest] {
	serialize := func(p *model.Project) any {
		tagIDs := p.TagIDs
		if tagIDs == nil {
			tagIDs = []string{}
		}
		return projectResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			OwnerID:     p.OwnerID,
			TagIDs:      tagIDs,
			CreatedAt:   p.CreatedAt.In(loc).Format(cfg.DatetimeFormat),
			UpdatedAt:   p.UpdatedAt.In(loc).Format(cfg.DatetimeFormat),
		}
	}

	return &Resource[model.Project, projectCreateRequest, projectUpdateRequest]{
		Svc: svc,
		NewEntity: func(c *fiber.Ctx, req *projectCreateRequest) (*model.Project, error) {
			return &model.Project{
				Name:        req.Name,
				Description: req.Description,
				OwnerID:     req.OwnerID,
				TagIDs:      req.TagIDs,
			}, nil
		},
		Required: []string{"name"},
		ApplyPatch: func(req *projectUpdateRequest, p *model.Project) error {
			if req.Name != nil {
				p.Name = *req.Name
			}
			if req.Description != nil {
				p.Description = *req.Description
			}
			if req.TagIDs != nil {
				p.TagIDs = *req.TagIDs
			}
			return nil
		},
		Filters: []FilterSpec{
			{Param: "name", Key: "name"},
			{Param: "owner_id", Key: "owner_id"},
			{Param: "created_after", Key: "created_after", Parse: func(raw string) (any, error) {
				return timeutil.Parse(raw, cfg.DatetimeFormat)
			}},
		},
		PerPage:   cfg.PageSize,
		Serialize: serialize,
		// Reads are open to any authenticated actor; writes are limited
		// to the owner, except admins.
		ObjectPermission: func(c *fiber.Ctx, p *model.Project) error {
			if c.Method() == fiber.MethodGet {
				return nil
			}
			return permission.IsOwner(func(*fiber.Ctx) (string, error) {
				return p.OwnerID, nil
			}).Allow(c)
		},
	}
}
