package query_test

import (
	"testing"

	"github.com/crewledger/seatime/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "letters", "l").
		Project("id", "id").
		Project("filename", "filename").
		Project("uploaded_at", "uploadedAt")
}

func joinedProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "service_records", "r").
		Project("id", "id").
		Project("vessel_name", "vesselName").
		Join("public", "letters", "l", "LEFT JOIN", "r.letter_id = l.id").
		Project("filename", "letterFilename")
}

func ptr(s string) *string { return &s }

func TestProjectionMapFrom(t *testing.T) {
	t.Run("base table", func(t *testing.T) {
		p := testProjection()
		got := p.From()
		want := "public.letters l"
		if got != want {
			t.Errorf("From() = %q, want %q", got, want)
		}
	})

	t.Run("with join", func(t *testing.T) {
		p := joinedProjection()
		got := p.From()
		want := "public.service_records r LEFT JOIN public.letters l ON r.letter_id = l.id"
		if got != want {
			t.Errorf("From() = %q, want %q", got, want)
		}
	})
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "l" {
		t.Errorf("Alias() = %q, want %q", got, "l")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "l.id, l.filename, l.uploaded_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapJoinedColumns(t *testing.T) {
	p := joinedProjection()
	got := p.Columns()
	want := "r.id, r.vessel_name, l.filename"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnList(t *testing.T) {
	p := testProjection()
	got := p.ColumnList()
	if len(got) != 3 {
		t.Fatalf("ColumnList() length = %d, want 3", len(got))
	}
	want := []string{"l.id", "l.filename", "l.uploaded_at"}
	for i, col := range got {
		if col != want[i] {
			t.Errorf("ColumnList()[%d] = %q, want %q", i, col, want[i])
		}
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "filename", "l.filename"},
		{"mapped camel", "uploadedAt", "l.uploaded_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "name",
			want:  []query.SortField{{Field: "name", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-uploadedAt",
			want:  []query.SortField{{Field: "uploadedAt", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "name,-uploadedAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "uploadedAt", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " name , -uploadedAt ",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "uploadedAt", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "name,,uploadedAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "uploadedAt", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildWithJoin(t *testing.T) {
	p := joinedProjection()
	b := query.NewBuilder(p)
	sql, _ := b.Build()

	wantSQL := "SELECT r.id, r.vessel_name, l.filename FROM public.service_records r LEFT JOIN public.letters l ON r.letter_id = l.id"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.letters l"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "uploadedAt", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l ORDER BY l.uploaded_at DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildSingle("id", "abc-123")

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderBuildSingleOrNull(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("filename", "letter.pdf")
	sql, args := b.BuildSingleOrNull()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename = $1 LIMIT 1"
	if sql != wantSQL {
		t.Errorf("BuildSingleOrNull() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "letter.pdf" {
		t.Errorf("BuildSingleOrNull() args = %v, want [letter.pdf]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("filename", "letter.pdf")
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "letter.pdf" {
		t.Errorf("args = %v, want [letter.pdf]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("filename", nil)
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("filename", ptr("arctic"))
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%arctic%" {
		t.Errorf("args = %v, want [%%arctic%%]", args)
	}
}

func TestBuilderWhereContainsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("filename", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereIn(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereIn("id", []any{"a", "b", "c"})
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.id IN ($1, $2, $3)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 3 {
		t.Errorf("args length = %d, want 3", len(args))
	}
}

func TestBuilderWhereNullable(t *testing.T) {
	t.Run("nil value generates IS NULL", func(t *testing.T) {
		p := testProjection()
		b := query.NewBuilder(p)
		b.WhereNullable("filename", nil)
		sql, args := b.Build()

		wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename IS NULL"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("non-nil value generates equals", func(t *testing.T) {
		p := testProjection()
		b := query.NewBuilder(p)
		b.WhereNullable("filename", "letter.pdf")
		sql, args := b.Build()

		wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 || args[0] != "letter.pdf" {
			t.Errorf("args = %v, want [letter.pdf]", args)
		}
	})
}

func TestBuilderWhereNotNull(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereNotNull("filename")
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename IS NOT NULL"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereRaw(t *testing.T) {
	t.Run("verbatim clause without args", func(t *testing.T) {
		p := testProjection()
		b := query.NewBuilder(p)
		b.WhereRaw(`l.flags @> '[{"severity": "error"}]'`)
		sql, args := b.Build()

		wantSQL := `SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.flags @> '[{"severity": "error"}]'`
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("numbers args after earlier conditions", func(t *testing.T) {
		p := testProjection()
		b := query.NewBuilder(p)
		b.WhereEquals("filename", "letter.pdf")
		b.WhereRaw("l.uploaded_at > $%d", "2026-01-01")
		sql, args := b.Build()

		wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename = $1 AND l.uploaded_at > $2"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 2 {
			t.Errorf("args length = %d, want 2", len(args))
		}
	})
}

func TestBuilderWhereSearch(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereSearch(ptr("arctic"), "filename", "id")
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE (l.filename ILIKE $1 OR l.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%arctic%" || args[1] != "%arctic%" {
		t.Errorf("args = %v, want [%%arctic%% %%arctic%%]", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("filename", "letter.pdf")
	b.WhereContains("id", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename = $1 AND l.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "id", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "uploadedAt", Descending: true},
		{Field: "filename", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l ORDER BY l.uploaded_at DESC, l.filename ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderBuildCountWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("filename", "letter.pdf")
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.letters l WHERE l.filename = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "letter.pdf" {
		t.Errorf("args = %v, want [letter.pdf]", args)
	}
}

func TestBuilderBuildPageWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "id"})
	b.WhereContains("filename", ptr("arctic"))
	sql, args := b.BuildPage(3, 25)

	wantSQL := "SELECT l.id, l.filename, l.uploaded_at FROM public.letters l WHERE l.filename ILIKE $1 ORDER BY l.id ASC LIMIT 25 OFFSET 50"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%arctic%" {
		t.Errorf("args = %v, want [%%arctic%%]", args)
	}
}
