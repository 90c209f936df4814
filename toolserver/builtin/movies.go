package builtin

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// MemoryDB is the DSN of a private in-memory database.
const MemoryDB = ":memory:"

type movie struct {
	title   string
	year    int
	budget  int
	runtime int
	rating  float64
	votes   int
}

var sampleMovies = []movie{
	{"The Shawshank Redemption", 1994, 25, 142, 9.3, 2500000},
	{"The Godfather", 1972, 6, 175, 9.2, 1900000},
	{"The Dark Knight", 2008, 185, 152, 9.0, 2700000},
	{"Pulp Fiction", 1994, 8, 154, 8.9, 1800000},
	{"Forrest Gump", 1994, 55, 142, 8.8, 1700000},
	{"Inception", 2010, 160, 148, 8.8, 2100000},
	{"The Matrix", 1999, 63, 136, 8.7, 1500000},
	{"Goodfellas", 1990, 25, 146, 8.7, 1200000},
	{"Interstellar", 2014, 165, 169, 8.6, 900000},
	{"City of God", 2002, 30, 130, 8.6, 800000},
	{"Parasite", 2019, 11, 132, 8.6, 700000},
	{"The Green Mile", 1999, 60, 189, 8.6, 1100000},
	{"Gladiator", 2000, 103, 155, 8.5, 1000000},
	{"The Usual Suspects", 1995, 6, 106, 8.5, 900000},
	{"The Prestige", 2006, 40, 130, 8.5, 850000},
}

const moviesSchema = `
CREATE TABLE IF NOT EXISTS movies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	year INTEGER NOT NULL,
	budget_millions INTEGER NOT NULL,
	runtime_minutes INTEGER NOT NULL,
	rating REAL NOT NULL,
	votes INTEGER NOT NULL
)`

// OpenMovies opens the SQLite database at dsn (MemoryDB for a private in-memory
// one) and creates and seeds the movies table when it is empty. A file database
// is then reopened with mode=ro; an in-memory one is switched to query_only.
// execute_sql additionally accepts only single SELECT or WITH statements, so
// a tool call cannot lift either restriction.
func OpenMovies(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: an in-memory database and the query_only pragma are per connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := seedMovies(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if dsn != MemoryDB {
		if err := db.Close(); err != nil {
			return nil, fmt.Errorf("close seeded database: %w", err)
		}
		return openReadOnly(ctx, dsn)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA query_only = 1"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable query_only: %w", err)
	}
	return db, nil
}

func openReadOnly(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", readOnlyDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database read-only: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database read-only: %w", err)
	}
	return db, nil
}

// readOnlyDSN turns a path or file: URI into a read-only URI that also sets
// query_only on every connection.
func readOnlyDSN(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "mode=ro&_pragma=query_only(1)"
}

func seedMovies(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, moviesSchema); err != nil {
		return fmt.Errorf("create movies table: %w", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return fmt.Errorf("count movies: %w", err)
	}
	if n > 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO movies (title, year, budget_millions, runtime_minutes, rating, votes) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()
	for _, m := range sampleMovies {
		if _, err := stmt.ExecContext(ctx, m.title, m.year, m.budget, m.runtime, m.rating, m.votes); err != nil {
			return fmt.Errorf("seed %q: %w", m.title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
