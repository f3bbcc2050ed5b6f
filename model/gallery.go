package model

import "time"

// DefaultCategory is the category assigned to gallery items and bookings that don't specify one.
const DefaultCategory = "tattoo"

// GalleryItem represents a single displayable image in the studio gallery.
type GalleryItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GalleryUpdate holds the fields of a partial gallery item update. Nil fields are left unchanged.
type GalleryUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	URL         *string `json:"url,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// Apply copies the supplied fields of the update into the gallery item.
func (u GalleryUpdate) Apply(item *GalleryItem) {
	if u.Title != nil {
		item.Title = *u.Title
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.URL != nil {
		item.URL = *u.URL
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
}

// CategoryOrDefault returns the category, or DefaultCategory if it's empty.
func CategoryOrDefault(category string) string {
	if category == "" {
		return DefaultCategory
	}
	return category
}

// Upload describes an image stored by the upload endpoint.
type Upload struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// DeleteResult is the acknowledgement returned by delete operations. Deleting a record that doesn't
// exist produces the same acknowledgement.
type DeleteResult struct {
	Success   bool  `json:"success"`
	DeletedID int64 `json:"deletedId"`
}
