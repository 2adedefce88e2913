package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"inscode/internal/apperror"
	"inscode/internal/model"
	"inscode/internal/repository"
)

var tagFilters = map[string]string{
	"name": "name =",
}

// TagPostgres is a PostgreSQL implementation of
// repository.Repository[model.Tag].
type TagPostgres struct {
	db *sql.DB
}

// NewTagPostgres creates a new TagPostgres repository.
func NewTagPostgres(db *sql.DB) *TagPostgres {
	return &TagPostgres{db: db}
}

var _ repository.Repository[model.Tag] = (*TagPostgres)(nil)

const tagColumns = "id, name, created_at"

// Create inserts a new tag. Duplicate names map to a conflict error.
func (r *TagPostgres) Create(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	const q = `
		INSERT INTO tags (id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING ` + tagColumns

	var out model.Tag
	err := r.db.QueryRowContext(ctx, q, t.ID, t.Name, t.CreatedAt).Scan(&out.ID, &out.Name, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict(
				"tag already exists",
				apperror.FieldError{Field: "name", Message: "a tag with this name already exists"},
			)
		}
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single tag by its ID.
func (r *TagPostgres) FindByID(ctx context.Context, id string) (*model.Tag, error) {
	const q = `SELECT ` + tagColumns + ` FROM tags WHERE id = $1`

	var t model.Tag
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// Update renames a tag. Duplicate names map to a conflict error.
func (r *TagPostgres) Update(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	const q = `
		UPDATE tags SET name = $2
		WHERE id = $1
		RETURNING ` + tagColumns

	var out model.Tag
	err := r.db.QueryRowContext(ctx, q, t.ID, t.Name).Scan(&out.ID, &out.Name, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict(
				"tag already exists",
				apperror.FieldError{Field: "name", Message: "a tag with this name already exists"},
			)
		}
		return nil, notFound(err)
	}
	return &out, nil
}

// Delete removes a tag by ID. Missing rows are not an error.
func (r *TagPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM tags WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// List returns tags ordered by name.
func (r *TagPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Tag], error) {
	return r.page(ctx, "", nil, pq)
}

// Filter returns tags matching the allow-listed filter keys.
func (r *TagPostgres) Filter(ctx context.Context, f repository.Filter, pq repository.PageQuery) (*repository.PageResult[model.Tag], error) {
	where, args, err := buildWhere(f, tagFilters)
	if err != nil {
		return nil, err
	}
	return r.page(ctx, where, args, pq)
}

func (r *TagPostgres) page(ctx context.Context, where string, args []any, pq repository.PageQuery) (*repository.PageResult[model.Tag], error) {
	qCount := `SELECT COUNT(*) FROM tags` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(
		`SELECT %s FROM tags%s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		tagColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit(), pq.Offset())...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Tag]{
		Items:   items,
		Total:   total,
		Page:    pq.Page,
		PerPage: pq.PerPage,
	}, nil
}
