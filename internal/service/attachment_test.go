package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inscode/internal/apperror"
	"inscode/internal/model"
	"inscode/internal/repository"
	repoMocks "inscode/internal/repository/mocks"
	"inscode/internal/storage"
	storeMocks "inscode/internal/storage/mocks"
)

func TestAttachmentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name             string
		projectID        string
		originalFilename string
		contentType      string
		size             int64
		setupMocks       func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment], mProjects *repoMocks.MockRepository[model.Project]) io.Reader
		wantErr          error
		wantErrMsg       string
		wantStatus       int
	}{
		{
			name:             "happy path",
			projectID:        "p-1",
			originalFilename: "test.txt",
			contentType:      "text/plain",
			size:             11,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment], mProjects *repoMocks.MockRepository[model.Project]) io.Reader {
				r := strings.NewReader("hello world")
				mProjects.On("FindByID", ctx, "p-1").Return(&model.Project{ID: "p-1"}, nil)
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "attachments/p-1/") && strings.HasSuffix(key, ".txt")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "text/plain",
					Metadata:    map[string]string{"original-filename": "test.txt"},
				}).Return(storage.ObjectInfo{
					Key:         "attachments/p-1/uuid.txt",
					Size:        11,
					ContentType: "text/plain",
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(att *model.Attachment) bool {
					return att.ProjectID == "p-1" && att.StoragePath == "attachments/p-1/uuid.txt"
				})).Return(&model.Attachment{ID: "gen-id", ProjectID: "p-1"}, nil)

				return r
			},
		},
		{
			name:      "nil reader",
			projectID: "p-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment], mProjects *repoMocks.MockRepository[model.Project]) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:      "missing project",
			projectID: "ghost",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment], mProjects *repoMocks.MockRepository[model.Project]) io.Reader {
				mProjects.On("FindByID", ctx, "ghost").Return(nil, repository.ErrNotFound)
				return strings.NewReader("hello")
			},
			wantStatus: 404,
		},
		{
			name:      "storage error",
			projectID: "p-1",
			size:      5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment], mProjects *repoMocks.MockRepository[model.Project]) io.Reader {
				r := strings.NewReader("hello")
				mProjects.On("FindByID", ctx, "p-1").Return(&model.Project{ID: "p-1"}, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:      "repository error with successful rollback",
			projectID: "p-1",
			size:      5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment], mProjects *repoMocks.MockRepository[model.Project]) io.Reader {
				r := strings.NewReader("hello")
				mProjects.On("FindByID", ctx, "p-1").Return(&model.Project{ID: "p-1"}, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:      "repository error with failed rollback",
			projectID: "p-1",
			size:      5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment], mProjects *repoMocks.MockRepository[model.Project]) io.Reader {
				r := strings.NewReader("hello")
				mProjects.On("FindByID", ctx, "p-1").Return(&model.Project{ID: "p-1"}, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockRepository[model.Attachment])
			mProjects := new(repoMocks.MockRepository[model.Project])
			svc := NewAttachmentService(mStore, mRepo, mProjects)

			r := tt.setupMocks(mStore, mRepo, mProjects)

			att, err := svc.Upload(ctx, tt.projectID, r, tt.originalFilename, tt.contentType, tt.size)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantStatus != 0:
				var apiErr *apperror.Error
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
			case tt.wantErrMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, att)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mProjects.AssertExpectations(t)
		})
	}
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment])
		wantStatus int
		wantErrMsg string
	}{
		{
			name: "happy path",
			id:   "a-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment]) {
				mRepo.On("FindByID", ctx, "a-1").Return(&model.Attachment{ID: "a-1", StoragePath: "path/to/obj"}, nil)
				mStore.On("Delete", ctx, "path/to/obj").Return(nil)
				mRepo.On("Delete", ctx, "a-1").Return(nil)
			},
		},
		{
			name:       "empty id",
			id:         "",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment]) {},
			wantStatus: 400,
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment]) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrNotFound)
			},
			wantStatus: 404,
		},
		{
			name: "storage delete error keeps row",
			id:   "a-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockRepository[model.Attachment]) {
				mRepo.On("FindByID", ctx, "a-1").Return(&model.Attachment{ID: "a-1", StoragePath: "path"}, nil)
				mStore.On("Delete", ctx, "path").Return(errors.New("storage fail"))
			},
			wantErrMsg: "delete storage: storage fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockRepository[model.Attachment])
			svc := NewAttachmentService(mStore, mRepo, nil)

			tt.setupMocks(mStore, mRepo)

			err := svc.Delete(ctx, tt.id)

			switch {
			case tt.wantStatus != 0:
				var apiErr *apperror.Error
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
			case tt.wantErrMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAttachmentService_ListByProject(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockRepository[model.Attachment])
	svc := NewAttachmentService(nil, mRepo, nil)

	mRepo.On("Filter", ctx, repository.Filter{"project_id": "p-1"}, repository.PageQuery{Page: 1, PerPage: 10}).
		Return(&repository.PageResult[model.Attachment]{
			Items: []model.Attachment{{ID: "a-1"}},
			Total: 1, Page: 1, PerPage: 10,
		}, nil)

	res, err := svc.ListByProject(ctx, "p-1", repository.PageQuery{})

	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	mRepo.AssertExpectations(t)

	_, err = svc.ListByProject(ctx, "", repository.PageQuery{})
	assert.Error(t, err)
}

func TestAttachmentService_DownloadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path with default expiry", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockRepository[model.Attachment])
		svc := NewAttachmentService(mStore, mRepo, nil)

		mRepo.On("FindByID", ctx, "a-1").Return(&model.Attachment{ID: "a-1", StoragePath: "path"}, nil)
		mStore.On("PresignGet", ctx, "path", 15*time.Minute).Return("https://example/signed", nil)

		url, err := svc.DownloadURL(ctx, "a-1", 0)

		require.NoError(t, err)
		assert.Equal(t, "https://example/signed", url)
		mStore.AssertExpectations(t)
	})

	t.Run("missing attachment", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockRepository[model.Attachment])
		svc := NewAttachmentService(mStore, mRepo, nil)

		mRepo.On("FindByID", ctx, "missing").Return(nil, repository.ErrNotFound)

		_, err := svc.DownloadURL(ctx, "missing", time.Minute)

		var apiErr *apperror.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.Status)
	})
}
