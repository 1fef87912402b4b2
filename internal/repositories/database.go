package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Database is the read surface the repositories need. *pgxpool.Pool satisfies
// it, and so does pgxmock in tests.
type Database interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE substring pattern, so that
// wildcard characters in the input match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
