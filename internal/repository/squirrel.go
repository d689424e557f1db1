package repository

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/mtlprog/momentum/internal/database"
)

// builderFor returns a Squirrel statement builder with the placeholder format of the dialect.
func builderFor(dialect database.Dialect) sq.StatementBuilderType {
	if dialect == database.DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}
