package qb

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/datagate-io/datagate/pkg/pg"
)

type opKind int

const (
	opSelect opKind = iota
	opInsert
	opUpdate
	opDelete
)

type condition struct {
	field    string
	operator string // eq, neq, gt, gte, lt, lte, like, ilike, in, is
	value    any
	negated  bool
}

type joinClause struct {
	table     string
	fromField string
	toField   string
	kind      string // LEFT or INNER
}

type orderClause struct {
	column    string
	ascending bool
}

// sqlBuilder renders accumulated composition steps into one parameterized
// statement at Execute time. It is not safe for concurrent use; each request
// builds its own.
type sqlBuilder struct {
	conn    pg.Conn
	table   string
	columns string
	op      opKind
	conds   []condition
	ors     [][]condition
	joins   []joinClause
	orders  []orderClause
	from    *int
	to      *int
	data    map[string]any
	err     error
}

// SQLClient creates builders that execute against a PostgreSQL connection.
type SQLClient struct {
	conn pg.Conn
}

func NewSQLClient(conn pg.Conn) *SQLClient {
	return &SQLClient{conn: conn}
}

func (c *SQLClient) From(table string) Builder {
	return &sqlBuilder{conn: c.conn, table: table, columns: "*"}
}

func (b *sqlBuilder) Select(columns string) Builder {
	if columns != "" {
		b.columns = columns
	}
	return b
}

func (b *sqlBuilder) cond(field, operator string, value any) Builder {
	b.conds = append(b.conds, condition{field: field, operator: operator, value: value})
	return b
}

func (b *sqlBuilder) Eq(field string, value any) Builder    { return b.cond(field, "eq", value) }
func (b *sqlBuilder) Neq(field string, value any) Builder   { return b.cond(field, "neq", value) }
func (b *sqlBuilder) Gt(field string, value any) Builder    { return b.cond(field, "gt", value) }
func (b *sqlBuilder) Gte(field string, value any) Builder   { return b.cond(field, "gte", value) }
func (b *sqlBuilder) Lt(field string, value any) Builder    { return b.cond(field, "lt", value) }
func (b *sqlBuilder) Lte(field string, value any) Builder   { return b.cond(field, "lte", value) }
func (b *sqlBuilder) Like(field string, pattern any) Builder {
	return b.cond(field, "like", pattern)
}
func (b *sqlBuilder) Ilike(field string, pattern any) Builder {
	return b.cond(field, "ilike", pattern)
}

func (b *sqlBuilder) In(field string, values []any) Builder {
	return b.cond(field, "in", values)
}

func (b *sqlBuilder) Is(field string, value any) Builder { return b.cond(field, "is", value) }

func (b *sqlBuilder) Not(field, operator string, value any) Builder {
	b.conds = append(b.conds, condition{field: field, operator: operator, value: value, negated: true})
	return b
}

func (b *sqlBuilder) Or(encoded string) Builder {
	conds, err := parseOrEncoding(encoded)
	if err != nil && b.err == nil {
		b.err = err
	}
	b.ors = append(b.ors, conds)
	return b
}

func (b *sqlBuilder) LeftJoin(table, fromField, toField string) Builder {
	b.joins = append(b.joins, joinClause{table: table, fromField: fromField, toField: toField, kind: "LEFT"})
	return b
}

func (b *sqlBuilder) InnerJoin(table, fromField, toField string) Builder {
	b.joins = append(b.joins, joinClause{table: table, fromField: fromField, toField: toField, kind: "INNER"})
	return b
}

func (b *sqlBuilder) Range(from, to int) Builder {
	b.from, b.to = &from, &to
	return b
}

func (b *sqlBuilder) Order(column string, ascending bool) Builder {
	b.orders = append(b.orders, orderClause{column: column, ascending: ascending})
	return b
}

func (b *sqlBuilder) Insert(data map[string]any) Builder {
	b.op = opInsert
	b.data = data
	return b
}

func (b *sqlBuilder) Update(data map[string]any) Builder {
	b.op = opUpdate
	b.data = data
	return b
}

func (b *sqlBuilder) Delete() Builder {
	b.op = opDelete
	return b
}

func (b *sqlBuilder) Execute(ctx context.Context) (Result, error) {
	if b.err != nil {
		return Result{}, b.err
	}

	sql, args, err := b.build()
	if err != nil {
		return Result{}, err
	}

	rows, err := b.conn.Query(ctx, sql, args...)
	if err != nil {
		return Result{}, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	data, err := collectRows(rows)
	if err != nil {
		return Result{}, fmt.Errorf("reading rows: %w", err)
	}

	count := int64(len(data))
	return Result{Data: data, Count: &count}, nil
}

// build renders the statement.
func (b *sqlBuilder) build() (string, []any, error) {
	switch b.op {
	case opInsert:
		return b.buildInsert()
	case opUpdate:
		return b.buildUpdate()
	case opDelete:
		return b.buildDelete()
	default:
		return b.buildSelect()
	}
}

func (b *sqlBuilder) buildSelect() (string, []any, error) {
	var q strings.Builder
	var args []any

	q.WriteString("SELECT ")
	q.WriteString(b.projection())
	q.WriteString(" FROM ")
	q.WriteString(sanitizeIdent(b.table))

	for _, j := range b.joins {
		fmt.Fprintf(&q, " %s JOIN %s ON %s = %s",
			j.kind,
			sanitizeIdent(j.table),
			qualifyField(b.table, j.fromField),
			qualifyField(j.table, j.toField))
	}

	where, args, err := b.renderWhere(args)
	if err != nil {
		return "", nil, err
	}
	q.WriteString(where)

	if len(b.orders) > 0 {
		q.WriteString(" ORDER BY ")
		parts := make([]string, 0, len(b.orders))
		for _, o := range b.orders {
			dir := "ASC"
			if !o.ascending {
				dir = "DESC"
			}
			parts = append(parts, sanitizeField(o.column)+" "+dir)
		}
		q.WriteString(strings.Join(parts, ", "))
	}

	if b.from != nil && b.to != nil {
		fmt.Fprintf(&q, " LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, *b.to-*b.from+1, *b.from)
	}

	return q.String(), args, nil
}

func (b *sqlBuilder) buildInsert() (string, []any, error) {
	if len(b.data) == 0 {
		return "", nil, fmt.Errorf("insert into %q: no values provided", b.table)
	}

	columns := make([]string, 0, len(b.data))
	placeholders := make([]string, 0, len(b.data))
	args := make([]any, 0, len(b.data))
	for _, key := range sortedKeys(b.data) {
		columns = append(columns, sanitizeIdent(key))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, b.data[key])
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		sanitizeIdent(b.table),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "))
	return sql, args, nil
}

func (b *sqlBuilder) buildUpdate() (string, []any, error) {
	if len(b.data) == 0 {
		return "", nil, fmt.Errorf("update %q: no values provided", b.table)
	}
	if len(b.conds) == 0 && len(b.ors) == 0 {
		return "", nil, fmt.Errorf("update %q: refusing to update without conditions", b.table)
	}

	var q strings.Builder
	var args []any

	q.WriteString("UPDATE ")
	q.WriteString(sanitizeIdent(b.table))
	q.WriteString(" SET ")

	setClauses := make([]string, 0, len(b.data))
	for _, key := range sortedKeys(b.data) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", sanitizeIdent(key), len(args)+1))
		args = append(args, b.data[key])
	}
	q.WriteString(strings.Join(setClauses, ", "))

	where, args, err := b.renderWhere(args)
	if err != nil {
		return "", nil, err
	}
	q.WriteString(where)
	q.WriteString(" RETURNING *")

	return q.String(), args, nil
}

func (b *sqlBuilder) buildDelete() (string, []any, error) {
	if len(b.conds) == 0 && len(b.ors) == 0 {
		return "", nil, fmt.Errorf("delete from %q: refusing to delete without conditions", b.table)
	}

	var q strings.Builder
	var args []any

	q.WriteString("DELETE FROM ")
	q.WriteString(sanitizeIdent(b.table))

	where, args, err := b.renderWhere(args)
	if err != nil {
		return "", nil, err
	}
	q.WriteString(where)
	q.WriteString(" RETURNING *")

	return q.String(), args, nil
}

func (b *sqlBuilder) projection() string {
	if b.columns != "*" {
		cols := strings.Split(b.columns, ",")
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if c == "*" {
				parts = append(parts, "*")
				continue
			}
			parts = append(parts, sanitizeField(c))
		}
		return strings.Join(parts, ", ")
	}
	if len(b.joins) == 0 {
		return "*"
	}
	// wildcard across base table and every joined table
	parts := []string{sanitizeIdent(b.table) + ".*"}
	for _, j := range b.joins {
		parts = append(parts, sanitizeIdent(j.table)+".*")
	}
	return strings.Join(parts, ", ")
}

func (b *sqlBuilder) renderWhere(args []any) (string, []any, error) {
	clauses := make([]string, 0, len(b.conds)+len(b.ors))

	for _, c := range b.conds {
		clause, newArgs, err := renderCondition(c, args)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = newArgs
	}

	for _, group := range b.ors {
		if len(group) == 0 {
			continue
		}
		parts := make([]string, 0, len(group))
		for _, c := range group {
			clause, newArgs, err := renderCondition(c, args)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, clause)
			args = newArgs
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func renderCondition(c condition, args []any) (string, []any, error) {
	ident := sanitizeField(c.field)

	switch c.operator {
	case "is":
		if c.value == nil {
			if c.negated {
				return ident + " IS NOT NULL", args, nil
			}
			return ident + " IS NULL", args, nil
		}
		if v, ok := c.value.(bool); ok {
			form := "IS"
			if c.negated {
				form = "IS NOT"
			}
			if v {
				return fmt.Sprintf("%s %s TRUE", ident, form), args, nil
			}
			return fmt.Sprintf("%s %s FALSE", ident, form), args, nil
		}
		return "", nil, fmt.Errorf("IS condition on %q requires null or boolean value", c.field)
	case "in":
		values, ok := c.value.([]any)
		if !ok {
			values = []any{c.value}
		}
		if len(values) == 0 {
			// empty IN list matches nothing
			return "FALSE", args, nil
		}
		placeholders := make([]string, 0, len(values))
		for _, v := range values {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, v)
		}
		clause := fmt.Sprintf("%s IN (%s)", ident, strings.Join(placeholders, ", "))
		if c.negated {
			clause = "NOT (" + clause + ")"
		}
		return clause, args, nil
	}

	sqlOp, ok := sqlOperators[c.operator]
	if !ok {
		return "", nil, fmt.Errorf("unknown condition operator %q", c.operator)
	}

	clause := fmt.Sprintf("%s %s $%d", ident, sqlOp, len(args)+1)
	args = append(args, c.value)
	if c.negated {
		clause = "NOT (" + clause + ")"
	}
	return clause, args, nil
}

var sqlOperators = map[string]string{
	"eq":    "=",
	"neq":   "<>",
	"gt":    ">",
	"gte":   ">=",
	"lt":    "<",
	"lte":   "<=",
	"like":  "LIKE",
	"ilike": "ILIKE",
}

// sanitizeField quotes a possibly table-qualified column reference.
func sanitizeField(field string) string {
	return pgx.Identifier(strings.Split(field, ".")).Sanitize()
}

func sanitizeIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func qualifyField(table, field string) string {
	if strings.Contains(field, ".") {
		return sanitizeField(field)
	}
	return pgx.Identifier{table, field}.Sanitize()
}
