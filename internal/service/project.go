package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inscode/internal/apperror"
	"inscode/internal/model"
	"inscode/internal/repository"
)

// ProjectService handles project use cases. Beyond the generic CRUD it
// fills in identity fields and resolves the owner from the
// authenticated actor.
type ProjectService struct {
	Crud[model.Project]
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(repo repository.Repository[model.Project]) *ProjectService {
	s := &ProjectService{}
	s.Crud = Crud[model.Project]{
		Name:         "project",
		Repo:         repo,
		BeforeCreate: s.beforeCreate,
		BeforeUpdate: s.beforeUpdate,
	}
	return s
}

var _ CrudService[model.Project] = (*ProjectService)(nil)

func (s *ProjectService) beforeCreate(ctx context.Context, p *model.Project) error {
	if p.OwnerID == "" {
		actor, ok := model.ActorFrom(ctx)
		if !ok {
			return apperror.BadRequest(
				"owner is required",
				apperror.FieldError{Field: "owner_id", Message: "owner_id is required for unauthenticated requests"},
			)
		}
		p.OwnerID = actor.ID
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (s *ProjectService) beforeUpdate(ctx context.Context, p *model.Project) error {
	p.UpdatedAt = time.Now().UTC()
	return nil
}
