package connectors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
)

var (
	// ErrConnector is returned when a source database cannot be reached or
	// a statement against it fails. It wraps the driver error.
	ErrConnector = errors.New("source database error")

	// ErrNotFound is returned when a lookup in a source database matches no row.
	ErrNotFound = errors.New("record not found in source database")
)

const (
	mssqlPort = 1433

	// Source systems answer interactively or not at all; a bounded timeout
	// covers both dialing and each statement.
	connectTimeout = 10 * time.Second
)

// mssqlConfig holds the coordinates of one SQL Server database. Every
// operation opens a fresh connection, runs a single unit of work and closes
// it again; connections are never reused across calls.
type mssqlConfig struct {
	Server   string
	Database string
	Username string
	Password string
}

func (c mssqlConfig) connectionString() string {
	query := url.Values{}
	query.Set("database", c.Database)
	query.Set("dial timeout", fmt.Sprintf("%d", int(connectTimeout.Seconds())))
	query.Set("encrypt", "disable")

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Server, fmt.Sprintf("%d", mssqlPort)),
		RawQuery: query.Encode(),
	}
	return u.String()
}

func (c mssqlConfig) open() (*sql.DB, error) {
	db, err := sql.Open("sqlserver", c.connectionString())
	if err != nil {
		return nil, fmt.Errorf("%w: opening connection to %s: %v", ErrConnector, c.Server, err)
	}
	return db, nil
}

// opContext bounds a single connector operation.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, connectTimeout)
}

// testConnection verifies the database answers a trivial query.
func (c mssqlConfig) testConnection(ctx context.Context) error {
	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := opContext(ctx)
	defer cancel()

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1 AS test").Scan(&one); err != nil {
		return fmt.Errorf("%w: testing connection to %s: %v", ErrConnector, c.Server, err)
	}
	return nil
}
