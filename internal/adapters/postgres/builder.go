package postgres

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
)

// statement is a parameterized SQL statement. Every statement that yields
// rows selects exactly one text column holding the row as a JSON object.
type statement struct {
	sql  string
	args []any
}

type builder struct {
	sb   strings.Builder
	args []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, param(v))
	return "$" + strconv.Itoa(len(b.args))
}

func (b *builder) statement() statement {
	return statement{sql: b.sb.String(), args: b.args}
}

func (b *builder) where(q ports.Query) error {
	var clauses []string
	for _, f := range q.Where {
		c, err := b.filter(f)
		if err != nil {
			return err
		}
		clauses = append(clauses, c)
	}
	if len(q.AnyOf) > 0 {
		alts := make([]string, 0, len(q.AnyOf))
		for _, f := range q.AnyOf {
			c, err := b.filter(f)
			if err != nil {
				return err
			}
			alts = append(alts, c)
		}
		clauses = append(clauses, "("+strings.Join(alts, " OR ")+")")
	}
	if len(clauses) > 0 {
		b.sb.WriteString(" WHERE ")
		b.sb.WriteString(strings.Join(clauses, " AND "))
	}
	return nil
}

func (b *builder) filter(f ports.Filter) (string, error) {
	col := pq.QuoteIdentifier(f.Column)
	switch f.Op {
	case ports.OpEq:
		if f.Value == nil {
			return col + " IS NULL", nil
		}
		return col + " = " + b.bind(f.Value), nil
	case ports.OpNeq:
		if f.Value == nil {
			return col + " IS NOT NULL", nil
		}
		return col + " <> " + b.bind(f.Value), nil
	case ports.OpGt:
		return col + " > " + b.bind(f.Value), nil
	case ports.OpGte:
		return col + " >= " + b.bind(f.Value), nil
	case ports.OpLt:
		return col + " < " + b.bind(f.Value), nil
	case ports.OpLte:
		return col + " <= " + b.bind(f.Value), nil
	case ports.OpILike:
		return col + " ILIKE " + b.bind(f.Value), nil
	case ports.OpContains:
		return col + " @> " + b.bind(f.Value) + "::text[]", nil
	}
	return "", fmt.Errorf("postgres: unsupported operator %q on %s", f.Op, f.Column)
}

func (b *builder) orderAndLimit(q ports.Query) {
	if len(q.OrderBy) > 0 {
		parts := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			dir := "ASC"
			if o.Descending {
				dir = "DESC"
			}
			parts = append(parts, pq.QuoteIdentifier(o.Column)+" "+dir)
		}
		b.sb.WriteString(" ORDER BY ")
		b.sb.WriteString(strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		b.sb.WriteString(" LIMIT ")
		b.sb.WriteString(strconv.Itoa(q.Limit))
	}
}

func buildSelect(table string, q ports.Query) (statement, error) {
	var b builder
	b.sb.WriteString("SELECT row_to_json(t)::text FROM (SELECT * FROM ")
	b.sb.WriteString(quoteName(table))
	if err := b.where(q); err != nil {
		return statement{}, err
	}
	b.orderAndLimit(q)
	b.sb.WriteString(") t")
	return b.statement(), nil
}

func buildCount(table string, q ports.Query) (statement, error) {
	var b builder
	b.sb.WriteString("SELECT count(*) FROM ")
	b.sb.WriteString(quoteName(table))
	if err := b.where(q); err != nil {
		return statement{}, err
	}
	return b.statement(), nil
}

func buildInsert(table string, row domain.Patch) (statement, error) {
	if len(row) == 0 {
		return statement{}, fmt.Errorf("postgres: insert into %s with no columns", table)
	}
	var b builder
	tbl := quoteName(table)
	cols := sortedKeys(row)
	quoted := make([]string, len(cols))
	values := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
		values[i] = b.bind(row[c])
	}
	fmt.Fprintf(&b.sb, "INSERT INTO %s (%s) VALUES (%s) RETURNING row_to_json(%s.*)::text",
		tbl, strings.Join(quoted, ", "), strings.Join(values, ", "), tbl)
	return b.statement(), nil
}

func buildUpdate(table string, patch domain.Patch, q ports.Query) (statement, error) {
	if len(patch) == 0 {
		return statement{}, fmt.Errorf("postgres: update of %s with an empty patch", table)
	}
	if len(q.Where) == 0 && len(q.AnyOf) == 0 {
		return statement{}, fmt.Errorf("postgres: update of %s without a filter", table)
	}
	var b builder
	tbl := quoteName(table)
	cols := sortedKeys(patch)
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = pq.QuoteIdentifier(c) + " = " + b.bind(patch[c])
	}
	fmt.Fprintf(&b.sb, "UPDATE %s SET %s", tbl, strings.Join(sets, ", "))
	if err := b.where(q); err != nil {
		return statement{}, err
	}
	fmt.Fprintf(&b.sb, " RETURNING row_to_json(%s.*)::text", tbl)
	return b.statement(), nil
}

func buildDelete(table string, q ports.Query) (statement, error) {
	if len(q.Where) == 0 && len(q.AnyOf) == 0 {
		return statement{}, fmt.Errorf("postgres: delete from %s without a filter", table)
	}
	var b builder
	b.sb.WriteString("DELETE FROM ")
	b.sb.WriteString(quoteName(table))
	if err := b.where(q); err != nil {
		return statement{}, err
	}
	return b.statement(), nil
}

// buildCall invokes fn with named arguments and renders its result as JSON.
func buildCall(fn string, args map[string]any) statement {
	var b builder
	fmt.Fprintf(&b.sb, "SELECT to_json(%s(%s))::text", quoteName(fn), b.namedArgs(args))
	return b.statement()
}

func buildCallRows(fn string, args map[string]any) statement {
	var b builder
	fmt.Fprintf(&b.sb, "SELECT row_to_json(r)::text FROM %s(%s) r", quoteName(fn), b.namedArgs(args))
	return b.statement()
}

func (b *builder) namedArgs(args map[string]any) string {
	names := make([]string, 0, len(args))
	for k := range args {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = pq.QuoteIdentifier(n) + " => " + b.bind(args[n])
	}
	return strings.Join(parts, ", ")
}

// quoteName quotes a possibly schema-qualified table or function name.
func quoteName(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func sortedKeys(p domain.Patch) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// param converts a patch or filter value into a driver argument. Pointers are
// dereferenced, string slices become Postgres arrays and anything structured
// is sent as JSON text for json columns.
func param(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, int, int32, int64, float32, float64, []byte:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case json.RawMessage:
		return string(t)
	case []string:
		return pq.Array(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return param(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.String {
			out := make([]string, rv.Len())
			for i := range out {
				out[i] = rv.Index(i).String()
			}
			return pq.Array(out)
		}
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
