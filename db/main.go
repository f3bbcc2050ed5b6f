package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cyverse-de/dbutil"
	"github.com/pkg/errors"

	// Database drivers.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// InitDatabase establishes a database connection and verifies that the database can be reached. The pool is
// limited to a single connection, which lives for the lifetime of the process.
func InitDatabase(driverName, databaseURI string) (*sql.DB, error) {
	wrapMsg := "unable to initialize the database"

	if _, err := placeholderFormat(driverName); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Create a database connector to establish the connection.
	connector, err := dbutil.NewDefaultConnector("1m")
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Establish the database connection.
	db, err := connector.Connect(driverName, databaseURI)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

func placeholderFormat(driverName string) (sq.PlaceholderFormat, error) {
	switch driverName {
	case DriverSQLite:
		return sq.Question, nil
	case DriverPostgres:
		return sq.Dollar, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driverName)
	}
}

// Client runs the studio's statements against a database connection.
type Client struct {
	db      *sql.DB
	driver  string
	builder sq.StatementBuilderType
}

// NewClient returns a client that builds statements for the given driver.
func NewClient(db *sql.DB, driverName string) (*Client, error) {
	format, err := placeholderFormat(driverName)
	if err != nil {
		return nil, err
	}
	return &Client{
		db:      db,
		driver:  driverName,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}, nil
}

// Begin starts a new transaction.
func (c *Client) Begin(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}

// Commit commits a transaction.
func (c *Client) Commit(tx *sql.Tx) error {
	return tx.Commit()
}

// Rollback rolls a transaction back. Rolling back a committed transaction is harmless.
func (c *Client) Rollback(tx *sql.Tx) error {
	err := tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// Ping verifies that the database can still be reached.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// Now returns the current time in the form stored in timestamp columns.
func Now() time.Time {
	return time.Now().UTC()
}

// required binds a value for a NOT NULL column. Empty strings are bound as NULL so that a missing field is
// rejected by the database instead of being stored as an empty value.
func required(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
