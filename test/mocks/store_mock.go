// Package mocks provides in-memory implementations of the port interfaces
// so services and adapters can be tested without Postgres, Redis or RabbitMQ.
package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
)

// StoreCall records one call made against MockStore.
type StoreCall struct {
	Op    string
	Table string
	Query ports.Query
	Patch domain.Patch
	Args  map[string]any
}

// MockStore implements ports.Store over in-memory tables. Filters, ordering
// and limits are evaluated the way the SQL store evaluates them, so services
// can be exercised end to end without a database.
type MockStore struct {
	mu     sync.RWMutex
	tables map[string][]map[string]any

	// Canned procedure results, keyed by function name
	RPCResults map[string]json.RawMessage
	RPCRows    map[string][]json.RawMessage

	// Call tracking for verification
	Calls []StoreCall

	// Error injection for testing error scenarios
	SelectError error
	InsertError error
	UpdateError error
	DeleteError error
	CountError  error
	CallError   error
}

var _ ports.Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		tables:     make(map[string][]map[string]any),
		RPCResults: make(map[string]json.RawMessage),
		RPCRows:    make(map[string][]json.RawMessage),
	}
}

// Seed adds rows to table for test setup. Rows may be row structs, patches or
// raw JSON objects.
func (m *MockStore) Seed(table string, rows ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], normalizeRow(r))
	}
}

// Rows returns a copy of the rows currently in table.
func (m *MockStore) Rows(table string) []map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]map[string]any, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, cloneRow(r))
	}
	return out
}

// GetCalls returns the calls made with op ("select", "insert", "update",
// "delete", "count", "rpc"), or every call when op is empty.
func (m *MockStore) GetCalls(op string) []StoreCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []StoreCall
	for _, c := range m.Calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = make(map[string][]map[string]any)
	m.RPCResults = make(map[string]json.RawMessage)
	m.RPCRows = make(map[string][]json.RawMessage)
	m.Calls = nil
	m.SelectError = nil
	m.InsertError = nil
	m.UpdateError = nil
	m.DeleteError = nil
	m.CountError = nil
	m.CallError = nil
}

func (m *MockStore) Select(ctx context.Context, table string, q ports.Query) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, StoreCall{Op: "select", Table: table, Query: q})
	if m.SelectError != nil {
		return nil, m.SelectError
	}

	var hits []map[string]any
	for _, r := range m.tables[table] {
		if rowMatches(r, q) {
			hits = append(hits, r)
		}
	}
	sortRows(hits, q.OrderBy)
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	return encodeRows(hits), nil
}

func (m *MockStore) Insert(ctx context.Context, table string, row domain.Patch) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, StoreCall{Op: "insert", Table: table, Patch: row})
	if m.InsertError != nil {
		return nil, m.InsertError
	}

	r := normalizeRow(row)
	if _, ok := r["id"]; !ok {
		r["id"] = uuid.NewString()
	}
	m.tables[table] = append(m.tables[table], r)
	return encodeRow(r), nil
}

func (m *MockStore) Update(ctx context.Context, table string, patch domain.Patch, q ports.Query) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, StoreCall{Op: "update", Table: table, Patch: patch, Query: q})
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("mock store: update of %s with an empty patch", table)
	}

	values := normalizeRow(patch)
	var updated []map[string]any
	for _, r := range m.tables[table] {
		if !rowMatches(r, q) {
			continue
		}
		for k, v := range values {
			r[k] = v
		}
		updated = append(updated, r)
	}
	return encodeRows(updated), nil
}

func (m *MockStore) Delete(ctx context.Context, table string, q ports.Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, StoreCall{Op: "delete", Table: table, Query: q})
	if m.DeleteError != nil {
		return m.DeleteError
	}

	kept := m.tables[table][:0]
	for _, r := range m.tables[table] {
		if !rowMatches(r, q) {
			kept = append(kept, r)
		}
	}
	m.tables[table] = kept
	return nil
}

func (m *MockStore) Count(ctx context.Context, table string, q ports.Query) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, StoreCall{Op: "count", Table: table, Query: q})
	if m.CountError != nil {
		return 0, m.CountError
	}

	n := 0
	for _, r := range m.tables[table] {
		if rowMatches(r, q) {
			n++
		}
	}
	return n, nil
}

func (m *MockStore) Call(ctx context.Context, fn string, args map[string]any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, StoreCall{Op: "rpc", Table: fn, Args: args})
	if m.CallError != nil {
		return nil, m.CallError
	}
	res, ok := m.RPCResults[fn]
	if !ok {
		return nil, fmt.Errorf("mock store: no result for %s", fn)
	}
	return res, nil
}

func (m *MockStore) CallRows(ctx context.Context, fn string, args map[string]any) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, StoreCall{Op: "rpc", Table: fn, Args: args})
	if m.CallError != nil {
		return nil, m.CallError
	}
	rows := m.RPCRows[fn]
	out := make([]json.RawMessage, len(rows))
	copy(out, rows)
	return out, nil
}

func rowMatches(r map[string]any, q ports.Query) bool {
	for _, f := range q.Where {
		if !filterMatches(r, f) {
			return false
		}
	}
	if len(q.AnyOf) == 0 {
		return true
	}
	for _, f := range q.AnyOf {
		if filterMatches(r, f) {
			return true
		}
	}
	return false
}

func filterMatches(r map[string]any, f ports.Filter) bool {
	got := r[f.Column]
	want := normalize(f.Value)

	switch f.Op {
	case ports.OpEq:
		return reflect.DeepEqual(got, want)
	case ports.OpNeq:
		return !reflect.DeepEqual(got, want)
	case ports.OpGt:
		return got != nil && compare(got, want) > 0
	case ports.OpGte:
		return got != nil && compare(got, want) >= 0
	case ports.OpLt:
		return got != nil && compare(got, want) < 0
	case ports.OpLte:
		return got != nil && compare(got, want) <= 0
	case ports.OpILike:
		s, ok := got.(string)
		return ok && likePattern(fmt.Sprint(f.Value)).MatchString(s)
	case ports.OpContains:
		have, ok := got.([]any)
		if !ok {
			return false
		}
		needles, _ := want.([]any)
		for _, n := range needles {
			found := false
			for _, h := range have {
				if reflect.DeepEqual(h, n) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

func likePattern(p string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("(?is)^")
	for _, ch := range p {
		switch ch {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		return strings.Compare(av, fmt.Sprint(b))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// sortRows orders rows like SQL: nulls last ascending, first descending.
func sortRows(rows []map[string]any, order []ports.Order) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			a, b := rows[i][o.Column], rows[j][o.Column]
			var c int
			switch {
			case a == nil && b == nil:
				c = 0
			case a == nil:
				c = 1
			case b == nil:
				c = -1
			default:
				c = compare(a, b)
			}
			if o.Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// normalize round-trips v through JSON so stored values and filter values
// compare the way decoded rows do.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func normalizeRow(r any) map[string]any {
	var raw []byte
	switch v := r.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		var err error
		if raw, err = json.Marshal(v); err != nil {
			panic(fmt.Sprintf("mock store: cannot encode row: %v", err))
		}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("mock store: row is not a JSON object: %v", err))
	}
	return out
}

func cloneRow(r map[string]any) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func encodeRow(r map[string]any) json.RawMessage {
	raw, _ := json.Marshal(r)
	return raw
}

func encodeRows(rows []map[string]any) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, encodeRow(r))
	}
	return out
}
