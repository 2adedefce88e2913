package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"inscode/internal/config"
	"inscode/internal/model"
	"inscode/internal/service"
)

type tagCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type tagUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

type tagResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// NewTagResource builds the /tags endpoints.
func NewTagResource(svc service.CrudService[model.Tag], cfg *config.AppConfig, loc *time.Location) *Resource[model.Tag, tagCreateRequest, tagUpdateRequest] {
	return &Resource[model.Tag, tagCreateRequest, tagUpdateRequest]{
		Svc: svc,
		NewEntity: func(c *fiber.Ctx, req *tagCreateRequest) (*model.Tag, error) {
			return &model.Tag{Name: req.Name}, nil
		},
		Required: []string{"name"},
		ApplyPatch: func(req *tagUpdateRequest, tag *model.Tag) error {
			if req.Name != nil {
				tag.Name = *req.Name
			}
			return nil
		},
		Filters: []FilterSpec{
			{Param: "name", Key: "name"},
		},
		PerPage: cfg.PageSize,
		Serialize: func(tag *model.Tag) any {
			return tagResponse{
				ID:        tag.ID,
				Name:      tag.Name,
				CreatedAt: tag.CreatedAt.In(loc).Format(cfg.DatetimeFormat),
			}
		},
	}
}
