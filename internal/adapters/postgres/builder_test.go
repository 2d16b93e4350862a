package postgres

import (
	"reflect"
	"testing"

	"github.com/lib/pq"

	"github.com/asistoya/shared-services/internal/core/domain"
	"github.com/asistoya/shared-services/internal/core/ports"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name     string
		query    ports.Query
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no_filters",
			query:   ports.Query{},
			wantSQL: `SELECT row_to_json(t)::text FROM (SELECT * FROM "students") t`,
		},
		{
			name: "eq_order_limit",
			query: ports.Query{
				Where:   []ports.Filter{ports.Eq("school_id", "sch1")},
				OrderBy: []ports.Order{{Column: "name"}},
				Limit:   50,
			},
			wantSQL:  `SELECT row_to_json(t)::text FROM (SELECT * FROM "students" WHERE "school_id" = $1 ORDER BY "name" ASC LIMIT 50) t`,
			wantArgs: []any{"sch1"},
		},
		{
			name: "any_of_ilike",
			query: ports.Query{
				Where: []ports.Filter{ports.Eq("school_id", "sch1")},
				AnyOf: []ports.Filter{ports.ILike("name", "%an%"), ports.ILike("code", "%an%")},
			},
			wantSQL:  `SELECT row_to_json(t)::text FROM (SELECT * FROM "students" WHERE "school_id" = $1 AND ("name" ILIKE $2 OR "code" ILIKE $3)) t`,
			wantArgs: []any{"sch1", "%an%", "%an%"},
		},
		{
			name: "null_eq_and_date_range_desc",
			query: ports.Query{
				Where:   []ports.Filter{ports.Eq("read_at", nil), ports.Gte("date", "2024-03-01"), ports.Lte("date", "2024-03-31")},
				OrderBy: []ports.Order{{Column: "date", Descending: true}},
			},
			wantSQL:  `SELECT row_to_json(t)::text FROM (SELECT * FROM "students" WHERE "read_at" IS NULL AND "date" >= $1 AND "date" <= $2 ORDER BY "date" DESC) t`,
			wantArgs: []any{"2024-03-01", "2024-03-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ACT
			st, err := buildSelect("students", tt.query)

			// ASSERT
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if st.sql != tt.wantSQL {
				t.Errorf("sql mismatch\n got: %s\nwant: %s", st.sql, tt.wantSQL)
			}
			if len(st.args) != len(tt.wantArgs) || (len(st.args) > 0 && !reflect.DeepEqual(st.args, tt.wantArgs)) {
				t.Errorf("args mismatch: got %#v want %#v", st.args, tt.wantArgs)
			}
		})
	}
}

func TestBuildSelect_ContainsBindsArray(t *testing.T) {
	st, err := buildSelect("students", ports.Query{Where: []ports.Filter{ports.Contains("parent_codes", "PAR-1")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `SELECT row_to_json(t)::text FROM (SELECT * FROM "students" WHERE "parent_codes" @> $1::text[]) t`
	if st.sql != want {
		t.Errorf("sql mismatch\n got: %s\nwant: %s", st.sql, want)
	}
	arr, ok := st.args[0].(*pq.StringArray)
	if !ok || len(*arr) != 1 || (*arr)[0] != "PAR-1" {
		t.Errorf("expected string array argument, got %#v", st.args[0])
	}
}

func TestBuildInsert_SortsColumns(t *testing.T) {
	st, err := buildInsert("attendance", domain.Patch{"status": "present", "notes": nil, "latitude": 1.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `INSERT INTO "attendance" ("latitude", "notes", "status") VALUES ($1, $2, $3) RETURNING row_to_json("attendance".*)::text`
	if st.sql != want {
		t.Errorf("sql mismatch\n got: %s\nwant: %s", st.sql, want)
	}
	if !reflect.DeepEqual(st.args, []any{1.5, nil, "present"}) {
		t.Errorf("unexpected args %#v", st.args)
	}
}

func TestBuildUpdateAndDelete_RequireFilter(t *testing.T) {
	if _, err := buildUpdate("students", domain.Patch{"name": "Ana"}, ports.Query{}); err == nil {
		t.Error("expected unfiltered update to be refused")
	}
	if _, err := buildUpdate("students", domain.Patch{}, ports.Query{Where: []ports.Filter{ports.Eq("id", "1")}}); err == nil {
		t.Error("expected empty patch to be refused")
	}
	if _, err := buildDelete("students", ports.Query{}); err == nil {
		t.Error("expected unfiltered delete to be refused")
	}

	st, err := buildUpdate("students", domain.Patch{"name": "Ana"}, ports.Query{Where: []ports.Filter{ports.Eq("code", "EST-1")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `UPDATE "students" SET "name" = $1 WHERE "code" = $2 RETURNING row_to_json("students".*)::text`
	if st.sql != want {
		t.Errorf("sql mismatch\n got: %s\nwant: %s", st.sql, want)
	}
}

func TestBuildCall_NamedArguments(t *testing.T) {
	st := buildCall("generate_course_code", map[string]any{"p_school_id": "sch1", "p_grade": "5", "p_section": "A"})

	want := `SELECT to_json("generate_course_code"("p_grade" => $1, "p_school_id" => $2, "p_section" => $3))::text`
	if st.sql != want {
		t.Errorf("sql mismatch\n got: %s\nwant: %s", st.sql, want)
	}

	rows := buildCallRows("get_courses_by_teacher", map[string]any{"p_teacher_id": "t1"})
	if rows.sql != `SELECT row_to_json(r)::text FROM "get_courses_by_teacher"("p_teacher_id" => $1) r` {
		t.Errorf("unexpected rows sql %s", rows.sql)
	}
}

func TestParam(t *testing.T) {
	name := "Ana"
	var nilName *string
	type schedule struct {
		Day string `json:"day"`
	}

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "pointer_deref", in: &name, want: "Ana"},
		{name: "nil_pointer", in: nilName, want: nil},
		{name: "typed_string", in: domain.StatusLate, want: "late"},
		{name: "struct_slice_as_json", in: []schedule{{Day: "monday"}}, want: `[{"day":"monday"}]`},
		{name: "map_as_json", in: map[string]any{"a": 1}, want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := param(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}

	arr, ok := param([]domain.DeliveryMethod{domain.DeliveryPush}).(*pq.StringArray)
	if !ok || (*arr)[0] != "push" {
		t.Errorf("expected typed string slice as array, got %#v", arr)
	}
}
