package rates

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// tableRow is one row of the rate_tables snapshot table: a logical table
// name and its JSON payload, same shape as the embedded files.
type tableRow struct {
	Name    string `db:"name"`
	Payload []byte `db:"payload"`
}

// NewPostgresProvider loads a rate-table snapshot from PostgreSQL. Tables
// are read once at startup; the connection is closed before returning, so
// runtime reads never touch the database.
func NewPostgresProvider(dsn string, maxConn, maxIdleConn int) (*Tables, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rates database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	var rows []tableRow
	if err := db.Select(&rows, `SELECT name, payload FROM rate_tables`); err != nil {
		return nil, fmt.Errorf("failed to load rate tables: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("rate_tables is empty")
	}

	files := tableFiles{}
	for _, row := range rows {
		files[row.Name] = row.Payload
	}

	return newTables(files)
}
