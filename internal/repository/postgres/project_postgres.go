package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"inscode/internal/apperror"
	"inscode/internal/model"
	"inscode/internal/repository"
)

// projectFilters maps public filter keys to SQL comparisons.
var projectFilters = map[string]string{
	"name":          "name =",
	"owner_id":      "owner_id =",
	"created_after": "created_at >=",
}

// ProjectPostgres is a PostgreSQL implementation of
// repository.Repository[model.Project]. The tag relation is stored in
// the project_tags join table and written transactionally with the row.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.Repository[model.Project] = (*ProjectPostgres)(nil)

const projectColumns = "id, name, description, owner_id, created_at, updated_at"

// Create inserts a new project row and its tag links in one transaction.
func (r *ProjectPostgres) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + projectColumns

	var out model.Project
	row := tx.QueryRowContext(ctx, q, p.ID, p.Name, p.Description, p.OwnerID, p.CreatedAt, p.UpdatedAt)
	if err := scanProject(row, &out); err != nil {
		return nil, err
	}

	out.TagIDs, err = r.replaceTags(ctx, tx, out.ID, p.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single project and its tag IDs.
func (r *ProjectPostgres) FindByID(ctx context.Context, id string) (*model.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var p model.Project
	if err := scanProject(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		return nil, notFound(err)
	}

	tags, err := r.tagsByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.TagIDs = tags
	return &p, nil
}

// Update persists the mutable columns and replaces the tag links.
func (r *ProjectPostgres) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		UPDATE projects
		SET name = $2, description = $3, owner_id = $4, updated_at = $5
		WHERE id = $1
		RETURNING ` + projectColumns

	var out model.Project
	row := tx.QueryRowContext(ctx, q, p.ID, p.Name, p.Description, p.OwnerID, p.UpdatedAt)
	if err := scanProject(row, &out); err != nil {
		return nil, notFound(err)
	}

	out.TagIDs, err = r.replaceTags(ctx, tx, out.ID, p.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a project by ID. Tag links go with it via ON DELETE
// CASCADE. Missing rows are not an error.
func (r *ProjectPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM projects WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// List returns projects ordered by creation time, newest first.
func (r *ProjectPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	return r.page(ctx, "", nil, pq)
}

// Filter returns projects matching the allow-listed filter keys.
func (r *ProjectPostgres) Filter(ctx context.Context, f repository.Filter, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	where, args, err := buildWhere(f, projectFilters)
	if err != nil {
		return nil, err
	}
	return r.page(ctx, where, args, pq)
}

func (r *ProjectPostgres) page(ctx context.Context, where string, args []any, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	qCount := `SELECT COUNT(*) FROM projects` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(
		`SELECT %s FROM projects%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		projectColumns, where, len(args)+1, len(args)+2,
	)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit(), pq.Offset())...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, items); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Project]{
		Items:   items,
		Total:   total,
		Page:    pq.Page,
		PerPage: pq.PerPage,
	}, nil
}

// replaceTags rewrites the tag links for a project. All referenced tags
// must exist; unknown IDs produce a field-scoped bad request.
func (r *ProjectPostgres) replaceTags(ctx context.Context, tx *sql.Tx, projectID string, tagIDs []string) ([]string, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = $1`, projectID); err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return []string{}, nil
	}

	qExists := `SELECT COUNT(*) FROM tags WHERE id IN (` + placeholders(1, len(tagIDs)) + `)`
	existsArgs := make([]any, len(tagIDs))
	for i, id := range tagIDs {
		existsArgs[i] = id
	}
	var found int
	if err := tx.QueryRowContext(ctx, qExists, existsArgs...).Scan(&found); err != nil {
		return nil, err
	}
	if found != len(tagIDs) {
		return nil, apperror.BadRequest(
			"some related tags were not found",
			apperror.FieldError{Field: "tag_ids", Message: "invalid IDs in the list"},
		)
	}

	const qInsert = `INSERT INTO project_tags (project_id, tag_id) VALUES ($1, $2)`
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, qInsert, projectID, tagID); err != nil {
			return nil, err
		}
	}
	return append([]string(nil), tagIDs...), nil
}

func (r *ProjectPostgres) tagsByProject(ctx context.Context, projectID string) ([]string, error) {
	const q = `SELECT tag_id FROM project_tags WHERE project_id = $1 ORDER BY tag_id`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		tags = append(tags, id)
	}
	return tags, rows.Err()
}

// attachTags loads tag links for a page of projects with a single query.
func (r *ProjectPostgres) attachTags(ctx context.Context, items []model.Project) error {
	if len(items) == 0 {
		return nil
	}

	args := make([]any, len(items))
	for i := range items {
		args[i] = items[i].ID
	}
	q := `SELECT project_id, tag_id FROM project_tags WHERE project_id IN (` +
		placeholders(1, len(items)) + `) ORDER BY tag_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byProject := make(map[string][]string, len(items))
	for rows.Next() {
		var projectID, tagID string
		if err := rows.Scan(&projectID, &tagID); err != nil {
			return err
		}
		byProject[projectID] = append(byProject[projectID], tagID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		tags := byProject[items[i].ID]
		if tags == nil {
			tags = []string{}
		}
		items[i].TagIDs = tags
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner, p *model.Project) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
}
