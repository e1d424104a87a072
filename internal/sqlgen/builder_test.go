package sqlgen

import (
	"reflect"
	"testing"

	"github.com/hlop3z/linkdb/internal/testutil"
)

// -----------------------------------------------------------------------------
// Dialect Tests
// -----------------------------------------------------------------------------

func TestDialectString(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{Postgres, "postgres"},
		{SQLite, "sqlite"},
		{MySQL, "mysql"},
		{Dialect(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.dialect.String(); got != tt.want {
				t.Errorf("Dialect.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in     string
		want   Dialect
		wantOk bool
	}{
		{"postgres", Postgres, true},
		{"PostgreSQL", Postgres, true},
		{"pgx", Postgres, true},
		{"sqlite3", SQLite, true},
		{" mysql ", MySQL, true},
		{"mariadb", MySQL, true},
		{"oracle", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDialect(tt.in)
			if ok != tt.wantOk || (ok && got != tt.want) {
				t.Errorf("ParseDialect(%q) = %v, %v", tt.in, got, ok)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// QuoteIdent / Placeholder Tests
// -----------------------------------------------------------------------------

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		ident   string
		want    string
	}{
		{"postgres_simple", Postgres, "book", `"book"`},
		{"postgres_escape", Postgres, `bo"ok`, `"bo""ok"`},
		{"sqlite_simple", SQLite, "book_author", `"book_author"`},
		{"mysql_simple", MySQL, "book", "`book`"},
		{"mysql_escape", MySQL, "bo`ok", "`bo``ok`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteIdent(tt.dialect, tt.ident); got != tt.want {
				t.Errorf("QuoteIdent(%v, %q) = %q, want %q", tt.dialect, tt.ident, got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// DML Tests
// -----------------------------------------------------------------------------

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		build    func(b *Builder)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "all columns no filter",
			dialect: SQLite,
			build:   func(b *Builder) { b.Select().From("book") },
			wantSQL: `SELECT * FROM "book"`,
		},
		{
			name:    "columns filter order postgres",
			dialect: Postgres,
			build: func(b *Builder) {
				b.Select("book_id", "title").From("book").
					Where(Eq("book_id", int64(3)), Eq("user_id", "u1")).
					OrderBy("book_id")
			},
			wantSQL: `
				SELECT "book_id", "title"
				FROM "book"
				WHERE "book_id" = $1 AND "user_id" = $2
				ORDER BY "book_id"`,
			wantArgs: []any{int64(3), "u1"},
		},
		{
			name:     "mysql filter",
			dialect:  MySQL,
			build:    func(b *Builder) { b.Select("author_id").From("book_author").Where(Eq("book_id", 3)) },
			wantSQL:  "SELECT `author_id` FROM `book_author` WHERE `book_id` = ?",
			wantArgs: []any{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.dialect)
			tt.build(b)
			sql, args := b.Build()
			testutil.AssertSQL(t, sql, tt.wantSQL)
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	t.Run("postgres returning", func(t *testing.T) {
		sql, args := New(Postgres).
			InsertInto("book", []string{"title", "pages"}, []any{"Dune", 412}).
			Returning("book_id").
			Build()
		want := `INSERT INTO "book" ("title", "pages") VALUES ($1, $2) RETURNING "book_id"`
		if sql != want {
			t.Errorf("sql = %s, want %s", sql, want)
		}
		if len(args) != 2 {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("sqlite ignores returning", func(t *testing.T) {
		sql := New(SQLite).
			InsertInto("book_author", []string{"book_id", "author_id"}, []any{1, 2}).
			Returning("book_id").
			String()
		want := `INSERT INTO "book_author" ("book_id", "author_id") VALUES (?, ?)`
		if sql != want {
			t.Errorf("sql = %s, want %s", sql, want)
		}
	})

	t.Run("no columns", func(t *testing.T) {
		if got := New(SQLite).InsertInto("tag", nil, nil).String(); got != `INSERT INTO "tag" DEFAULT VALUES` {
			t.Errorf("sql = %s", got)
		}
		if got := New(MySQL).InsertInto("tag", nil, nil).String(); got != "INSERT INTO `tag` () VALUES ()" {
			t.Errorf("sql = %s", got)
		}
	})
}

func TestUpdateDelete(t *testing.T) {
	sql, args := New(Postgres).
		Update("book").
		Set([]string{"title", "date_updated"}, []any{"Dune", "2024-01-02 03:04:05"}).
		Where(Eq("book_id", int64(7))).
		Build()
	want := `UPDATE "book" SET "title" = $1, "date_updated" = $2 WHERE "book_id" = $3`
	if sql != want {
		t.Errorf("update sql = %s, want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"Dune", "2024-01-02 03:04:05", int64(7)}) {
		t.Errorf("update args = %v", args)
	}

	sql, args = New(SQLite).DeleteFrom("book_author").Where(Eq("book_id", int64(3))).Build()
	if sql != `DELETE FROM "book_author" WHERE "book_id" = ?` {
		t.Errorf("delete sql = %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("delete args = %v", args)
	}
}
