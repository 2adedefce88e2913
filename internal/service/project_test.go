package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inscode/internal/apperror"
	"inscode/internal/model"
	repoMocks "inscode/internal/repository/mocks"
)

func TestProjectService_Create(t *testing.T) {
	t.Run("owner resolved from actor", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.Project])
		svc := NewProjectService(mRepo)

		ctx := model.WithActor(context.Background(), model.Actor{ID: "user-1", Role: model.RoleEditor})

		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Project) bool {
			return p.OwnerID == "user-1" && p.ID != "" && !p.CreatedAt.IsZero()
		})).Return(&model.Project{ID: "p-1", OwnerID: "user-1"}, nil)

		got, err := svc.Create(ctx, &model.Project{Name: "demo"})

		require.NoError(t, err)
		assert.Equal(t, "user-1", got.OwnerID)
		mRepo.AssertExpectations(t)
	})

	t.Run("explicit owner wins over actor", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.Project])
		svc := NewProjectService(mRepo)

		ctx := model.WithActor(context.Background(), model.Actor{ID: "user-1"})

		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Project) bool {
			return p.OwnerID == "user-2"
		})).Return(&model.Project{ID: "p-1", OwnerID: "user-2"}, nil)

		_, err := svc.Create(ctx, &model.Project{Name: "demo", OwnerID: "user-2"})
		require.NoError(t, err)
	})

	t.Run("no owner and no actor", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository[model.Project])
		svc := NewProjectService(mRepo)

		got, err := svc.Create(context.Background(), &model.Project{Name: "demo"})

		assert.Nil(t, got)
		var apiErr *apperror.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.Status)
		require.Len(t, apiErr.Fields, 1)
		assert.Equal(t, "owner_id", apiErr.Fields[0].Field)
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProjectService_UpdateTouchesTimestamp(t *testing.T) {
	mRepo := new(repoMocks.MockRepository[model.Project])
	svc := NewProjectService(mRepo)
	ctx := context.Background()

	mRepo.On("FindByID", ctx, "p-1").Return(&model.Project{ID: "p-1", Name: "old"}, nil)
	mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Project) bool {
		return p.Name == "new" && !p.UpdatedAt.IsZero()
	})).Return(&model.Project{ID: "p-1", Name: "new"}, nil)

	got, err := svc.Update(ctx, "p-1", func(p *model.Project) error {
		p.Name = "new"
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	mRepo.AssertExpectations(t)
}
