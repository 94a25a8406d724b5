package catalog

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching substring anywhere, with
// LIKE metacharacters in substring taken literally.
func containsPattern(substring string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(substring)) + "%"
}

// containsFilter returns a case-insensitive "column contains substring"
// predicate. column must be a searchable column of table; anything else is
// rejected before it can reach SQL.
func containsFilter(table domain.FacetTable, column, substring string) (sq.Sqlizer, error) {
	if _, ok := domain.FacetColumns(table)[column]; !ok {
		return nil, domain.NewValidationError("column", fmt.Sprintf("%q is not searchable on %s", column, table))
	}
	return sq.Like{"lower(" + column + ")": containsPattern(substring)}, nil
}
