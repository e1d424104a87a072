package testutil

import (
	"database/sql"
	"testing"
)

// BookSchema is the canonical fixture: two data tables joined by a link table.
// user_id is the owner column; date_added/date_updated are the maintained
// timestamp columns.
const BookSchema = `
CREATE TABLE author (
	author_id INTEGER PRIMARY KEY,
	name VARCHAR(64) NOT NULL,
	bio TEXT,
	born DATE,
	user_id INTEGER,
	date_added DATETIME,
	date_updated DATETIME
);

CREATE TABLE book (
	book_id INTEGER PRIMARY KEY,
	title VARCHAR(128) NOT NULL,
	format VARCHAR(16) CHECK (format IN ('paperback', 'hardcover')),
	published DATE,
	price NUMERIC,
	pages INTEGER,
	user_id INTEGER,
	date_added DATETIME,
	date_updated DATETIME
);

CREATE TABLE book_author (
	book_id INTEGER NOT NULL,
	author_id INTEGER NOT NULL,
	PRIMARY KEY (book_id, author_id)
);
`

// PublisherSchema extends BookSchema with a third data table linked to both.
const PublisherSchema = `
CREATE TABLE publisher (
	publisher_id INTEGER PRIMARY KEY,
	name VARCHAR(64) NOT NULL,
	opens TIME
);

CREATE TABLE book_publisher (
	book_id INTEGER NOT NULL,
	publisher_id INTEGER NOT NULL
);

CREATE TABLE author_publisher (
	author_id INTEGER NOT NULL,
	publisher_id INTEGER NOT NULL
);
`

// SetupBookDB returns an in-memory database with BookSchema applied.
func SetupBookDB(t *testing.T) *sql.DB {
	t.Helper()

	db := SetupSQLite(t)
	ExecSQL(t, db, BookSchema)
	return db
}

// SeedLibrary loads book 3 linked to authors 7 and 9, plus an unrelated
// book 4 by author 8.
func SeedLibrary(t *testing.T, db *sql.DB) {
	t.Helper()

	ExecSQL(t, db, `
		INSERT INTO author (author_id, name, born, date_added, date_updated) VALUES
			(7, 'Frank Herbert', '1920-10-08', '2020-01-01 10:00:00', '2020-01-01 10:00:00'),
			(8, 'Ursula Le Guin', '1929-10-21', '2020-01-01 10:00:00', '2020-01-01 10:00:00'),
			(9, 'Brian Herbert', '1947-06-29', '2020-01-01 10:00:00', '2020-01-01 10:00:00');
		INSERT INTO book (book_id, title, format, published, price, pages, date_added, date_updated) VALUES
			(3, 'Dune', 'paperback', '1965-08-01', 9.99, 412, '2020-01-02 11:00:00', '2020-01-02 11:00:00'),
			(4, 'Earthsea', 'hardcover', '1968-11-01', 12.5, 183, '2020-01-02 11:00:00', '2020-01-02 11:00:00');
		INSERT INTO book_author (book_id, author_id) VALUES (3, 7), (3, 9), (4, 8);
	`)
}
