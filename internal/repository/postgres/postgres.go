package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"inscode/internal/apperror"
	"inscode/internal/repository"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// notFound normalizes sql.ErrNoRows into repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// placeholders renders "$start, $start+1, ..." for count arguments.
func placeholders(start, count int) string {
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

// buildWhere converts a filter into a WHERE clause using the given
// allow-list of key -> SQL comparison prefix (e.g. "name ="). Unknown
// keys are rejected with a field-scoped bad request. Keys are applied in
// sorted order so the generated SQL is deterministic.
func buildWhere(f repository.Filter, allowed map[string]string) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		conds []string
		args  []any
	)
	for _, k := range keys {
		cmp, ok := allowed[k]
		if !ok {
			return "", nil, apperror.BadRequest(
				"invalid filter",
				apperror.FieldError{Field: k, Message: "filtering by this field is not allowed"},
			)
		}
		args = append(args, f[k])
		conds = append(conds, fmt.Sprintf("%s $%d", cmp, len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}
