package mocks

import (
	"context"
	"io"
	"time"

	"inscode/internal/model"
	"inscode/internal/repository"
	"inscode/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockCrudService is a testify mock of service.CrudService for any
// model. Update invokes the apply callback on the stubbed entity so
// handler tests exercise their patch logic.
type MockCrudService[T model.Entity] struct {
	mock.Mock
}

var _ service.CrudService[model.Project] = (*MockCrudService[model.Project])(nil)

func (m *MockCrudService[T]) Create(ctx context.Context, ent *T) (*T, error) {
	args := m.Called(ctx, ent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCrudService[T]) Get(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCrudService[T]) Update(ctx context.Context, id string, apply func(*T) error) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	out := args.Get(0).(*T)
	if apply != nil {
		if err := apply(out); err != nil {
			return nil, err
		}
	}
	return out, args.Error(1)
}

func (m *MockCrudService[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCrudService[T]) List(ctx context.Context, f repository.Filter, pq repository.PageQuery) (*repository.PageResult[T], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[T]), args.Error(1)
}

// MockAttachmentService is a testify mock of service.AttachmentService.
type MockAttachmentService struct {
	mock.Mock
}

var _ service.AttachmentService = (*MockAttachmentService)(nil)

func (m *MockAttachmentService) Upload(ctx context.Context, projectID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Attachment, error) {
	args := m.Called(ctx, projectID, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Get(ctx context.Context, id string) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) ListByProject(ctx context.Context, projectID string, pq repository.PageQuery) (*repository.PageResult[model.Attachment], error) {
	args := m.Called(ctx, projectID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Attachment]), args.Error(1)
}

func (m *MockAttachmentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttachmentService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}
