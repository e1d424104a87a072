//go:build integration

package linkdb

import (
	"context"
	"net/url"
	"testing"

	"github.com/hlop3z/linkdb/internal/testutil"
)

func TestPostgres_RoundTrip(t *testing.T) {
	db, dbURL := testutil.SetupPostgres(t)
	testutil.ExecSQL(t, db, testutil.PostgresBookSchema)
	testutil.SeedLibrary(t, db)

	for _, driver := range []string{"postgres", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			c, err := New(ctx,
				WithDatabaseURL(dbURL),
				WithDriver(driver),
				WithOwnerKey("user_id"),
				WithClock(fixedNow),
			)
			testutil.AssertNoError(t, err)
			defer c.Close()

			if c.Dialect() != "postgres" {
				t.Fatalf("Dialect() = %q", c.Dialect())
			}
			if got := len(c.Tables()); got != 3 {
				t.Fatalf("len(Tables()) = %d, want 3", got)
			}

			row, err := c.Row(ctx, "book", 3)
			testutil.AssertNoError(t, err)
			if row["title"] != "Dune" || row["published"] != "08-01-1965" {
				t.Errorf("Row(book, 3) = %v", row)
			}

			res, err := c.Submit(ctx, url.Values{
				"tables":      {"book"},
				"title":       {"Dune Messiah"},
				"published":   {"07-01-1969"},
				"price":       {"10.50"},
				"link_tables": {"author"},
				"link_ids":    {"7"},
			})
			testutil.AssertNoError(t, err)
			id, ok := res.Inserted("book")
			if !ok {
				t.Fatal("book was not inserted")
			}
			if got := testutil.QueryString(t, db, "SELECT published::text FROM book WHERE book_id = $1", id); got != "1969-07-01" {
				t.Errorf("published stored as %q", got)
			}

			links, err := c.Links(ctx, "book", id)
			testutil.AssertNoError(t, err)
			if len(links) != 1 || len(links[0].IDs) != 1 || links[0].IDs[0] != 7 {
				t.Errorf("Links() = %v", links)
			}

			// author 7 goes with the new book, so re-seed it for the next driver.
			testutil.AssertNoError(t, c.Delete(ctx, "book", id))
			testutil.AssertError(t, c.Delete(ctx, "book", id), ErrRowNotFound)
			testutil.ExecSQL(t, db, `INSERT INTO author (author_id, name, born) VALUES (7, 'Frank Herbert', '1920-10-08')
				ON CONFLICT (author_id) DO NOTHING`)
			testutil.ExecSQL(t, db, `INSERT INTO book_author (book_id, author_id) VALUES (3, 7)
				ON CONFLICT DO NOTHING`)
		})
	}
}
