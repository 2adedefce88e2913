package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"inscode/internal/apperror"
	"inscode/internal/model"
	"inscode/internal/repository"
	"inscode/internal/storage"
)

var ErrReaderNil = errors.New("reader is nil")

// AttachmentService defines the use cases for project file attachments.
type AttachmentService interface {
	// Upload streams the content to object storage, saves metadata to
	// the database, and rolls the object back if the DB save fails.
	// originalFilename is used only to extract the extension; the stored
	// name is a UUID plus that extension.
	Upload(ctx context.Context, projectID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Attachment, error)

	// Get returns a single attachment by its ID.
	Get(ctx context.Context, id string) (*model.Attachment, error)

	// ListByProject returns a page of a project's attachments.
	ListByProject(ctx context.Context, projectID string, pq repository.PageQuery) (*repository.PageResult[model.Attachment], error)

	// Delete removes an attachment from both storage and the database.
	Delete(ctx context.Context, id string) error

	// DownloadURL returns a time-limited pre-signed URL for the content.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

type attachmentService struct {
	store    storage.Storage
	repo     repository.Repository[model.Attachment]
	projects repository.Repository[model.Project]
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(store storage.Storage, repo repository.Repository[model.Attachment], projects repository.Repository[model.Project]) AttachmentService {
	return &attachmentService{store: store, repo: repo, projects: projects}
}

func (s *attachmentService) Upload(ctx context.Context, projectID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if projectID == "" {
		return nil, apperror.BadRequest("project id is required")
	}

	// The parent project must exist before anything hits storage.
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("project not found")
		}
		return nil, err
	}

	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("attachments", projectID, genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	att := &model.Attachment{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Filename:    genName,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, att)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) Get(ctx context.Context, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, apperror.BadRequest("id is required")
	}
	att, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("attachment not found")
		}
		return nil, err
	}
	return att, nil
}

func (s *attachmentService) ListByProject(ctx context.Context, projectID string, pq repository.PageQuery) (*repository.PageResult[model.Attachment], error) {
	if projectID == "" {
		return nil, apperror.BadRequest("project id is required")
	}
	pq = pq.Normalize(repository.DefaultPerPage)
	return s.repo.Filter(ctx, repository.Filter{"project_id": projectID}, pq)
}

// Delete removes the object from storage first; if that fails the DB
// row is kept so the reference is not lost.
func (s *attachmentService) Delete(ctx context.Context, id string) error {
	att, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, att.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *attachmentService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	att, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return s.store.PresignGet(ctx, att.StoragePath, expiry)
}
