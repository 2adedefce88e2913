package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inscode/internal/model"
	"inscode/internal/repository"
)

// TagService handles tag use cases. Tags are plain CRUD with generated
// identity.
type TagService struct {
	Crud[model.Tag]
}

// NewTagService constructs a new TagService.
func NewTagService(repo repository.Repository[model.Tag]) *TagService {
	s := &TagService{}
	s.Crud = Crud[model.Tag]{
		Name:         "tag",
		Repo:         repo,
		BeforeCreate: s.beforeCreate,
	}
	return s
}

var _ CrudService[model.Tag] = (*TagService)(nil)

func (s *TagService) beforeCreate(ctx context.Context, t *model.Tag) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()
	return nil
}
