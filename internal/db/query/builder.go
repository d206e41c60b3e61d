package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/tableview"
)

// ErrUnsupportedOperator is returned for predicates outside the known operator set
var ErrUnsupportedOperator = errors.New("unsupported operator")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildWhere translates a filter set into a WHERE expression. It returns nil when
// there is nothing to filter on.
func BuildWhere(set models.ViewFilterSet) (squirrel.Sqlizer, error) {
	if len(set.Filters) == 0 {
		return nil, nil
	}

	parts := make([]squirrel.Sqlizer, 0, len(set.Filters))
	for _, f := range set.Filters {
		cond, err := buildCondition(f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, cond)
	}

	if set.FilterMode.OrDefault() == models.FilterModeAny {
		return squirrel.Or(parts), nil
	}
	return squirrel.And(parts), nil
}

func buildCondition(f models.ServerTableFilter) (squirrel.Sqlizer, error) {
	column := quoteIdent(f.Field)

	switch f.Operator {
	case models.OpContains:
		return squirrel.ILike{column: "%" + likeEscaper.Replace(fmt.Sprint(f.Value)) + "%"}, nil
	case models.OpEquals:
		return squirrel.Eq{column: f.Value}, nil
	case models.OpIn:
		return squirrel.Expr(column+" = ANY(?)", f.Value), nil
	case models.OpIsTrue:
		return squirrel.Expr(column + " = TRUE"), nil
	case models.OpIsFalse:
		return squirrel.Expr(column + " = FALSE"), nil
	case models.OpDateEquals:
		return squirrel.Expr(column+"::date = ?", f.Value), nil
	case models.OpDateAfter:
		return squirrel.Expr(column+"::date >= ?", f.Value), nil
	case models.OpDateBefore:
		return squirrel.Expr(column+"::date <= ?", f.Value), nil
	default:
		return nil, fmt.Errorf("%w: %q on %s", ErrUnsupportedOperator, f.Operator, f.Field)
	}
}

// BuildSelect builds the page query for q. Rows are ordered by the group field
// first so that groups stay contiguous across pages.
func BuildSelect(q tableview.Query) (string, []any, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(squirrel.Dollar).
		Column("*").
		From(quoteTable(q.TableID))

	where, err := BuildWhere(models.ViewFilterSet{Filters: q.Filters, FilterMode: q.FilterMode})
	if err != nil {
		return "", nil, err
	}
	if where != nil {
		sb = sb.Where(where)
	}

	if orderBy := orderClauses(q); len(orderBy) > 0 {
		sb = sb.OrderBy(orderBy...)
	}
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		sb = sb.Offset(uint64(q.Offset))
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build select: %w", err)
	}
	return sql, args, nil
}

// BuildCount builds the total row count query for q's filters
func BuildCount(q tableview.Query) (string, []any, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(squirrel.Dollar).
		Column("COUNT(*)").
		From(quoteTable(q.TableID))

	where, err := BuildWhere(models.ViewFilterSet{Filters: q.Filters, FilterMode: q.FilterMode})
	if err != nil {
		return "", nil, err
	}
	if where != nil {
		sb = sb.Where(where)
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build count: %w", err)
	}
	return sql, args, nil
}

func orderClauses(q tableview.Query) []string {
	var out []string
	groupSorted := false
	if q.GroupBy != "" {
		dir := models.SortAsc
		for _, s := range q.Sorting {
			if s.Field == q.GroupBy {
				dir = s.Direction
				break
			}
		}
		out = append(out, orderClause(q.GroupBy, dir))
		groupSorted = true
	}
	for _, s := range q.Sorting {
		if groupSorted && s.Field == q.GroupBy {
			continue
		}
		out = append(out, orderClause(s.Field, s.Direction))
	}
	return out
}

func orderClause(field string, dir models.SortDirection) string {
	if dir == models.SortDesc {
		return quoteIdent(field) + " DESC"
	}
	return quoteIdent(field) + " ASC"
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// quoteTable quotes a possibly schema-qualified table id such as crm.contacts
func quoteTable(tableID string) string {
	return pgx.Identifier(strings.Split(tableID, ".")).Sanitize()
}
