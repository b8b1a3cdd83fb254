// Package querybuilder renders the small set of Postgres statements the
// repositories need, numbering $n placeholders across the whole statement.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is one predicate of a WHERE clause. Predicates are ANDed.
type Condition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition  { return Condition{column, "=", value} }
func Gte(column string, value any) Condition { return Condition{column, ">=", value} }

// writer accumulates SQL text and its positional args.
type writer struct {
	buf  strings.Builder
	args []any
}

func (w *writer) sql(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
}

func (w *writer) arg(v any) {
	w.args = append(w.args, v)
	w.buf.WriteString("$" + strconv.Itoa(len(w.args)))
}

func (w *writer) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.sql(" WHERE ")
		} else {
			w.sql(" AND ")
		}
		w.sql(c.column, " ", c.op, " ")
		w.arg(c.value)
	}
}

func (w *writer) done() (string, []any, error) {
	return w.buf.String(), w.args, nil
}

type SelectBuilder struct {
	columns []string
	table   string
	conds   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 || strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select needs columns and a table")
	}

	var w writer
	w.sql("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.conds)
	if len(b.orderBy) > 0 {
		w.sql(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sql(" LIMIT ", strconv.Itoa(b.limit))
	}
	return w.done()
}

// InsertBuilder renders a multi-row INSERT; each Values call adds one row.
type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" || len(b.columns) == 0 || len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert needs a table, columns and at least one row")
	}

	var w writer
	w.sql("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			w.sql(", ")
		}
		w.sql("(")
		for j, v := range row {
			if j > 0 {
				w.sql(", ")
			}
			w.arg(v)
		}
		w.sql(")")
	}
	return w.done()
}

type UpdateBuilder struct {
	table   string
	columns []string
	values  []any
	conds   []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" || len(b.columns) == 0 {
		return "", nil, fmt.Errorf("update needs a table and at least one column")
	}

	var w writer
	w.sql("UPDATE ", b.table, " SET ")
	for i, col := range b.columns {
		if i > 0 {
			w.sql(", ")
		}
		w.sql(col, " = ")
		w.arg(b.values[i])
	}
	w.where(b.conds)
	return w.done()
}

type DeleteBuilder struct {
	table string
	conds []Condition
	all   bool
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

// All marks the statement as intentionally unfiltered.
func (b *DeleteBuilder) All() *DeleteBuilder {
	b.all = true
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.conds) == 0 && !b.all {
		return "", nil, fmt.Errorf("delete without conditions requires All()")
	}

	var w writer
	w.sql("DELETE FROM ", b.table)
	w.where(b.conds)
	return w.done()
}
