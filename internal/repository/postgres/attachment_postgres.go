package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"inscode/internal/model"
	"inscode/internal/repository"
)

var attachmentFilters = map[string]string{
	"project_id":   "project_id =",
	"content_type": "content_type =",
}

// AttachmentPostgres is a PostgreSQL implementation of
// repository.Repository[model.Attachment]. It uses database/sql with
// parameterized queries and contains no business logic.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.Repository[model.Attachment] = (*AttachmentPostgres)(nil)

const attachmentColumns = "id, project_id, filename, storage_path, size, content_type, created_at"

// Create inserts a new attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO attachments (id, project_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + attachmentColumns

	row := r.db.QueryRowContext(ctx, q,
		a.ID, a.ProjectID, a.Filename, a.StoragePath, a.Size, a.ContentType, a.CreatedAt,
	)
	var out model.Attachment
	if err := scanAttachment(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single attachment by its ID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = $1`

	var a model.Attachment
	if err := scanAttachment(r.db.QueryRowContext(ctx, q, id), &a); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Update persists the mutable metadata columns.
func (r *AttachmentPostgres) Update(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		UPDATE attachments
		SET filename = $2, content_type = $3
		WHERE id = $1
		RETURNING ` + attachmentColumns

	var out model.Attachment
	if err := scanAttachment(r.db.QueryRowContext(ctx, q, a.ID, a.Filename, a.ContentType), &out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// Delete removes an attachment by ID. Missing rows are not an error.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM attachments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// List returns attachments ordered by creation time, newest first.
func (r *AttachmentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Attachment], error) {
	return r.page(ctx, "", nil, pq)
}

// Filter returns attachments matching the allow-listed filter keys.
func (r *AttachmentPostgres) Filter(ctx context.Context, f repository.Filter, pq repository.PageQuery) (*repository.PageResult[model.Attachment], error) {
	where, args, err := buildWhere(f, attachmentFilters)
	if err != nil {
		return nil, err
	}
	return r.page(ctx, where, args, pq)
}

func (r *AttachmentPostgres) page(ctx context.Context, where string, args []any, pq repository.PageQuery) (*repository.PageResult[model.Attachment], error) {
	qCount := `SELECT COUNT(*) FROM attachments` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(
		`SELECT %s FROM attachments%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		attachmentColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit(), pq.Offset())...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		var a model.Attachment
		if err := scanAttachment(rows, &a); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Attachment]{
		Items:   items,
		Total:   total,
		Page:    pq.Page,
		PerPage: pq.PerPage,
	}, nil
}

func scanAttachment(row rowScanner, a *model.Attachment) error {
	return row.Scan(&a.ID, &a.ProjectID, &a.Filename, &a.StoragePath, &a.Size, &a.ContentType, &a.CreatedAt)
}
