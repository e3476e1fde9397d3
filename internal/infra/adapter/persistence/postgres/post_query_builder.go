// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"tnsystems-site/internal/repository"
)

// PostQueryBuilder builds the WHERE clause shared by the post COUNT and SELECT queries.
// Search terms are split on whitespace and combined with AND; each term matches
// title, excerpt or content case-insensitively.
type PostQueryBuilder struct{}

func NewPostQueryBuilder() *PostQueryBuilder {
	return &PostQueryBuilder{}
}

// BuildWhereClause returns "" and no args when the filter is empty.
func (qb *PostQueryBuilder) BuildWhereClause(filter repository.PostFilter) (clause string, args []any) {
	var conditions []string
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, term := range strings.Fields(filter.Search) {
		p := next(escapeILIKE(term))
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE %s OR excerpt ILIKE %s OR content ILIKE %s)", p, p, p))
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("%s = ANY(categories)", next(filter.Category)))
	}
	if filter.Slug != "" {
		conditions = append(conditions, "slug = "+next(filter.Slug))
	}
	if filter.PublishedOnly {
		conditions = append(conditions, "status = 'publish'")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeILIKE escapes LIKE wildcards in s and wraps it for a substring match.
func escapeILIKE(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
