// internal/db/initdb.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// CreateDatabaseIfNotExists connects to the server's maintenance database and
// creates the database named in connString when it is missing.
func CreateDatabaseIfNotExists(connString string) error {
	dbName, rootConnStr, err := splitConnString(connString, "postgres")
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	root, err := sql.Open("postgres", rootConnStr)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer root.Close()

	return ensureDatabase(root, dbName)
}

func ensureDatabase(root *sql.DB, dbName string) error {
	var one int
	err := root.QueryRow("SELECT 1 FROM pg_database WHERE datname = $1", dbName).Scan(&one)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	log.Info().Str("database", dbName).Msg("Creating database")
	// CREATE DATABASE cannot take a bind parameter.
	if _, err := root.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	log.Info().Str("database", dbName).Msg("Database created")
	return nil
}

// splitConnString returns the database named in connString and the same
// connection string pointed at rootName instead. Both URL and key=value forms
// are accepted.
func splitConnString(connString, rootName string) (dbName string, rootConn string, err error) {
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return "", "", fmt.Errorf("failed to parse connection URL: %w", err)
		}
		dbName = strings.TrimPrefix(u.Path, "/")
		if dbName == "" {
			return "", "", errors.New("connection URL has no database name")
		}
		u.Path = "/" + rootName
		return dbName, u.String(), nil
	}

	pairs := strings.Fields(connString)
	for i, pair := range pairs {
		if name, ok := strings.CutPrefix(pair, "dbname="); ok {
			dbName = name
			pairs[i] = "dbname=" + rootName
		}
	}
	if dbName == "" {
		return "", "", errors.New("could not find database name in connection string")
	}
	return dbName, strings.Join(pairs, " "), nil
}
