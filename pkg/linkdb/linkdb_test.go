package linkdb

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hlop3z/linkdb/internal/testutil"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func newClient(t *testing.T, opts ...Option) (*Client, *sql.DB) {
	t.Helper()

	db := testutil.SetupBookDB(t)
	testutil.SeedLibrary(t, db)

	opts = append([]Option{
		WithDB(db),
		WithDialect("sqlite"),
		WithOwnerKey("user_id"),
		WithClock(fixedNow),
	}, opts...)
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, db
}

func TestNew_FromURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	seed, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.ExecSQL(t, seed, testutil.BookSchema)
	testutil.SeedLibrary(t, seed)
	seed.Close()

	c, err := New(context.Background(), WithDatabaseURL("sqlite://"+path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if c.Dialect() != "sqlite" {
		t.Errorf("Dialect() = %q, want sqlite", c.Dialect())
	}
	if got := len(c.Tables()); got != 3 {
		t.Errorf("len(Tables()) = %d, want 3", got)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		code Code
	}{
		{"no url", nil, ErrConfigInvalid},
		{"unknown dialect", []Option{WithDatabaseURL("x.db"), WithDialect("oracle")}, "E6003"},
		{"existing db without dialect", []Option{WithDB(testutil.SetupSQLite(t))}, ErrConfigInvalid},
		{"empty schema", []Option{WithDB(testutil.SetupSQLite(t)), WithDialect("sqlite")}, "E1005"},
		{"missing catalog", []Option{WithMessages(filepath.Join(t.TempDir(), "none.yaml"))}, "E7002"},
		{"bad owner key", []Option{WithDatabaseURL("x.db"), WithOwnerKey("user id")}, ErrConfigInvalid},
		{"unknown override", []Option{
			WithDB(testutil.SetupBookDB(t)),
			WithDialect("sqlite"),
			WithOverrides(map[string]TableOverride{"novel": {ExternalName: "Novel"}}),
		}, ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.opts...)
			if !IsCode(err, tt.code) {
				t.Fatalf("New() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestClient_Tables(t *testing.T) {
	c, _ := newClient(t, WithOverrides(map[string]TableOverride{
		"book": {ExternalName: "Novel"},
	}))

	var names, kinds []string
	for _, info := range c.Tables() {
		names = append(names, info.ExternalName)
		kinds = append(kinds, info.Kind)
	}
	if diff := cmp.Diff([]string{"Author", "Novel", "Book Author"}, names); diff != "" {
		t.Errorf("external names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"data", "data", "link"}, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}

	if _, err := c.Table("bok"); !IsCode(err, ErrInvalidTableName) {
		t.Errorf("Table(bok) error = %v", err)
	}
}

func TestClient_ReadRows(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	l, err := c.Rows(ctx, "book", map[string]string{"format": "paperback"})
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(l.Rows) != 1 || l.Rows[0][1] != "Dune" {
		t.Errorf("Rows() = %v, want only Dune", l.Rows)
	}

	row, err := c.Row(ctx, "book", 3)
	if err != nil {
		t.Fatalf("Row() error = %v", err)
	}
	if row["title"] != "Dune" {
		t.Errorf("Row()[title] = %q", row["title"])
	}

	if _, err := c.Row(ctx, "book", 99); !IsCode(err, ErrRowNotFound) {
		t.Errorf("Row(99) error = %v, want ErrRowNotFound", err)
	}

	links, err := c.Links(ctx, "book", 3)
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if diff := cmp.Diff([]LinkSet{{Junction: "book_author", Table: "author", IDs: []int64{7, 9}}}, links); diff != "" {
		t.Errorf("Links() mismatch (-want +got):\n%s", diff)
	}

	view, err := c.View(ctx, "book", 3, true)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	var titles []string
	for _, e := range view {
		if e.Title {
			titles = append(titles, e.Label)
		}
	}
	if diff := cmp.Diff([]string{"Book", "Author", "Author"}, titles); diff != "" {
		t.Errorf("View() titles mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_SubmitAndDelete(t *testing.T) {
	c, db := newClient(t)
	ctx := context.Background()

	res, err := c.Submit(ctx, url.Values{
		"tables":      {"book"},
		"title":       {"Children of Dune"},
		"published":   {"04-01-1976"},
		"link_tables": {"author"},
		"link_ids":    {"7"},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	id, ok := res.Inserted("book")
	if !ok || id != 5 {
		t.Fatalf("Inserted(book) = %d, %v", id, ok)
	}
	if got := testutil.QueryString(t, db, "SELECT CAST(published AS TEXT) FROM book WHERE book_id = 5"); got != "1976-04-01" {
		t.Errorf("published stored as %q", got)
	}
	if got := testutil.QueryString(t, db, "SELECT CAST(date_added AS TEXT) FROM book WHERE book_id = 5"); got != "2024-05-01 12:00:00" {
		t.Errorf("date_added = %q", got)
	}

	if err := c.Delete(ctx, "book", 5); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	testutil.AssertRowCount(t, db, "author", 2)
	if err := c.Delete(ctx, "book", 5); !IsCode(err, ErrRowNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestClient_As(t *testing.T) {
	c, db := newClient(t)
	ctx := context.Background()
	alice := c.As("11")

	if _, err := alice.Submit(ctx, url.Values{"tables": {"book"}, "title": {"Mine"}}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got := testutil.QueryString(t, db, "SELECT user_id FROM book WHERE title = 'Mine'"); got != "11" {
		t.Errorf("user_id = %q, want 11", got)
	}

	l, err := alice.Rows(ctx, "book", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Rows) != 1 {
		t.Errorf("scoped Rows() = %d rows, want 1", len(l.Rows))
	}

	if err := alice.Delete(ctx, "book", 3); !IsCode(err, ErrRowNotFound) {
		t.Errorf("Delete of foreign row error = %v", err)
	}

	l, err = c.Rows(ctx, "book", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Rows) != 3 {
		t.Errorf("unscoped Rows() = %d rows, want 3", len(l.Rows))
	}
	if c.As("").Env().Principal != nil {
		t.Error("As(\"\") should drop the principal")
	}
}

func TestClient_Messages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	if err := os.WriteFile(path, []byte("E3002:\n  text: \"Nothing to delete in %s.\"\n  severity: warning\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, _ := newClient(t, WithMessages(path))

	err := c.Describe(c.Delete(context.Background(), "book", 99))
	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("Describe() = %v, want *Error", err)
	}
	if le.GetMessage() != "Nothing to delete in book." {
		t.Errorf("message = %q", le.GetMessage())
	}
	if le.GetSeverity().String() != "warning" {
		t.Errorf("severity = %s", le.GetSeverity())
	}
}

func TestClient_Form(t *testing.T) {
	c, _ := newClient(t)

	b := c.NewForm()
	if err := b.AddRowWithLinks(context.Background(), "book", 3); err != nil {
		t.Fatal(err)
	}
	f, err := b.Build(context.Background(), "/submit")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if diff := cmp.Diff([]string{"book", "author", "author[1]"}, f.Values()["tables"]); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Handler(t *testing.T) {
	c, _ := newClient(t)

	w := httptest.NewRecorder()
	c.Handler(ServerConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /api/tables = %d", w.Code)
	}
}

func TestClient_Reload(t *testing.T) {
	c, db := newClient(t)
	before := c.Handler(ServerConfig{})
	alice := c.As("11")

	testutil.ExecSQL(t, db, "CREATE TABLE shelf (shelf_id INTEGER PRIMARY KEY, label VARCHAR(32))")
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if _, err := c.Table("shelf"); err != nil {
		t.Errorf("Table(shelf) after Reload() error = %v", err)
	}
	if _, err := alice.Table("shelf"); !IsCode(err, ErrInvalidTableName) {
		t.Errorf("earlier As() copy Table(shelf) error = %v, want the old catalog", err)
	}

	w := httptest.NewRecorder()
	before.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tables/shelf", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("earlier handler GET /api/tables/shelf = %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	c.Handler(ServerConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tables/shelf", nil))
	if w.Code != http.StatusOK {
		t.Errorf("new handler GET /api/tables/shelf = %d, want 200", w.Code)
	}
}
