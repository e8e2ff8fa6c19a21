package changelist

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// SearchField is a column the free-text box matches against. Numeric fields
// only match terms that parse as a whole number, and then by equality.
type SearchField struct {
	Column  string
	Numeric bool
}

// likeEscaper quotes LIKE wildcards so search terms match literally. MySQL
// reads backslashes inside string literals, so '!' is the escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ApplySearch requires every whitespace separated term to match at least one field.
func ApplySearch(tx *gorm.DB, fields []SearchField, q string) *gorm.DB {
	if len(fields) == 0 {
		return tx
	}
	for _, term := range strings.Fields(q) {
		var (
			clauses []string
			args    []interface{}
		)
		for _, f := range fields {
			if f.Numeric {
				n, err := strconv.ParseUint(term, 10, 64)
				if err != nil {
					continue
				}
				clauses = append(clauses, fmt.Sprintf("%s = ?", f.Column))
				args = append(args, n)
				continue
			}
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", f.Column))
			args = append(args, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
		}
		if len(clauses) == 0 {
			return tx.Where("1 = 0")
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return tx
}
