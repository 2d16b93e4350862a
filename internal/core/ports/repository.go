package ports

import (
	"context"
	"encoding/json"

	"github.com/asistoya/shared-services/internal/core/domain"
)

// Op is a column comparison operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNeq      Op = "neq"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpILike    Op = "ilike"
	OpContains Op = "contains"
)

// Filter compares one column against a value. For OpContains the value is a
// []string that must be a subset of the array column.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Filter { return Filter{Column: column, Op: OpEq, Value: value} }
func Neq(column string, value any) Filter { return Filter{Column: column, Op: OpNeq, Value: value} }
func Gte(column string, value any) Filter { return Filter{Column: column, Op: OpGte, Value: value} }
func Lte(column string, value any) Filter { return Filter{Column: column, Op: OpLte, Value: value} }
func ILike(column, pattern string) Filter { return Filter{Column: column, Op: OpILike, Value: pattern} }
func Contains(column string, v ...string) Filter { return Filter{Column: column, Op: OpContains, Value: v} }

type Order struct {
	Column     string
	Descending bool
}

// Query selects rows. Where filters are combined with AND; when AnyOf is
// non-empty, at least one of its filters must also hold.
type Query struct {
	Where   []Filter
	AnyOf   []Filter
	OrderBy []Order
	Limit   int
}

// Store is the remote table and procedure surface the services depend on.
// Rows travel as JSON objects keyed by column name. Failures reported by the
// store itself are returned as *apperr.StoreError.
type Store interface {
	Select(ctx context.Context, table string, q Query) ([]json.RawMessage, error)
	Insert(ctx context.Context, table string, row domain.Patch) (json.RawMessage, error)
	// Update applies patch to every matching row and returns the updated rows.
	Update(ctx context.Context, table string, patch domain.Patch, q Query) ([]json.RawMessage, error)
	Delete(ctx context.Context, table string, q Query) error
	Count(ctx context.Context, table string, q Query) (int, error)
	// Call invokes a procedure returning a scalar or a single JSON value.
	Call(ctx context.Context, fn string, args map[string]any) (json.RawMessage, error)
	// CallRows invokes a set-returning procedure.
	CallRows(ctx context.Context, fn string, args map[string]any) ([]json.RawMessage, error)
}
