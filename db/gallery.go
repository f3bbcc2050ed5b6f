package db

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/bigheart-studio/studio-booking/model"
)

var galleryColumns = []string{
	"id",
	"title",
	"COALESCE(description, '')",
	"url",
	"COALESCE(category, '')",
	"created_at",
}

// SaveGalleryItem inserts a gallery item, scanning the assigned ID into the structure. An empty category is
// replaced with the default category. An empty title or URL is rejected by the database.
func (c *Client) SaveGalleryItem(ctx context.Context, tx *sql.Tx, item *model.GalleryItem) error {
	wrapMsg := "unable to save gallery item"

	item.Category = model.CategoryOrDefault(item.Category)

	// Build the insert statement.
	statement, args, err := c.builder.
		Insert("gallery").
		Columns("title", "description", "url", "category", "created_at").
		Values(required(item.Title), item.Description, required(item.URL), item.Category, item.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the insert statement, scanning the ID into the gallery item.
	err = tx.QueryRowContext(ctx, statement, args...).Scan(&item.ID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// ListGalleryItems lists gallery items, newest first. If category isn't empty then only items in that
// category are listed.
func (c *Client) ListGalleryItems(ctx context.Context, category string) ([]model.GalleryItem, error) {
	wrapMsg := "unable to list gallery items"

	// Build the query.
	query := c.builder.
		Select(galleryColumns...).
		From("gallery").
		OrderBy("created_at DESC", "id DESC")
	if category != "" {
		query = query.Where(sq.Eq{"category": category})
	}
	statement, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	rows, err := c.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	items := make([]model.GalleryItem, 0)
	for rows.Next() {
		var item model.GalleryItem
		err = rows.Scan(&item.ID, &item.Title, &item.Description, &item.URL, &item.Category, &item.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return items, nil
}

// GetGalleryItemURL returns the URL of the image referenced by a gallery item. The second return value is
// false if the gallery item doesn't exist.
func (c *Client) GetGalleryItemURL(ctx context.Context, tx *sql.Tx, id int64) (string, bool, error) {
	wrapMsg := fmt.Sprintf("unable to look up the URL of gallery item %d", id)

	// Build the query.
	statement, args, err := c.builder.
		Select("url").
		From("gallery").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	var url string
	err = tx.QueryRowContext(ctx, statement, args...).Scan(&url)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, wrapMsg)
	}

	return url, true, nil
}

// DeleteGalleryItem removes a gallery item. Removing an item that doesn't exist is not an error.
func (c *Client) DeleteGalleryItem(ctx context.Context, tx *sql.Tx, id int64) error {
	wrapMsg := fmt.Sprintf("unable to delete gallery item %d", id)

	statement, args, err := c.builder.
		Delete("gallery").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if _, err = tx.ExecContext(ctx, statement, args...); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}
