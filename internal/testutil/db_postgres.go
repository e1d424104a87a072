//go:build integration

package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresBookSchema is BookSchema with Postgres column types and generated keys.
const PostgresBookSchema = `
CREATE TABLE author (
	author_id SERIAL PRIMARY KEY,
	name VARCHAR(64) NOT NULL,
	bio TEXT,
	born DATE,
	user_id INTEGER,
	date_added TIMESTAMP,
	date_updated TIMESTAMP
);

CREATE TABLE book (
	book_id SERIAL PRIMARY KEY,
	title VARCHAR(128) NOT NULL,
	format VARCHAR(16) CHECK (format IN ('paperback', 'hardcover')),
	published DATE,
	price NUMERIC(8, 2),
	pages INTEGER,
	user_id INTEGER,
	date_added TIMESTAMP,
	date_updated TIMESTAMP
);

CREATE TABLE book_author (
	book_id INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	PRIMARY KEY (book_id, author_id)
);
`

// SetupPostgres starts a disposable PostgreSQL container and returns an open
// connection plus its URL. Set POSTGRES_IMAGE to override the image.
// The container is terminated when the test completes.
func SetupPostgres(t *testing.T) (*sql.DB, string) {
	t.Helper()
	SkipIfShort(t)

	ctx := context.Background()
	image := "postgres:16-alpine"
	if v := os.Getenv("POSTGRES_IMAGE"); v != "" {
		image = v
	}

	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("linkdb"),
		postgres.WithUsername("linkdb"),
		postgres.WithPassword("linkdb"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db, url
}
