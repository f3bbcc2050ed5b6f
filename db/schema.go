package db

import (
	"context"

	"github.com/pkg/errors"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS gallery (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		url TEXT NOT NULL,
		category TEXT DEFAULT 'tattoo',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		size TEXT,
		placement TEXT,
		design TEXT,
		service_type TEXT DEFAULT 'tattoo',
		status TEXT DEFAULT 'pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		read BOOLEAN DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS gallery (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		url TEXT NOT NULL,
		category TEXT DEFAULT 'tattoo',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		size TEXT,
		placement TEXT,
		design TEXT,
		service_type TEXT DEFAULT 'tattoo',
		status TEXT DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id SERIAL PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		read BOOLEAN DEFAULT false,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	)`,
}

// Migrate creates the gallery, bookings and notifications tables if they don't exist yet.
func (c *Client) Migrate(ctx context.Context) error {
	wrapMsg := "unable to create the database schema"

	statements := sqliteSchema
	if c.driver == DriverPostgres {
		statements = postgresSchema
	}

	for _, statement := range statements {
		if _, err := c.db.ExecContext(ctx, statement); err != nil {
			return errors.Wrap(err, wrapMsg)
		}
	}

	return nil
}
