package mirror

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/bigheart-studio/studio-booking/model"
)

func galleryID(item model.GalleryItem) int64 { return item.ID }

// SaveGalleryItem appends a gallery item, assigning its identity and creation time.
func (m *Mirror) SaveGalleryItem(ctx context.Context, item model.GalleryItem) (*model.GalleryItem, error) {
	err := m.update(ctx, func(txn *badger.Txn) error {
		gallery, err := load[model.GalleryItem](txn, GalleryKey)
		if err != nil {
			return err
		}

		item.ID, err = nextID(txn, GalleryKey, maxID(gallery, galleryID))
		if err != nil {
			return err
		}
		item.Category = model.CategoryOrDefault(item.Category)
		item.CreatedAt = m.now()

		return store(txn, GalleryKey, append(gallery, item))
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListGallery lists gallery items newest first. An empty category lists every item.
func (m *Mirror) ListGallery(ctx context.Context, category string) ([]model.GalleryItem, error) {
	var items []model.GalleryItem
	err := m.view(ctx, func(txn *badger.Txn) error {
		gallery, err := load[model.GalleryItem](txn, GalleryKey)
		if err != nil {
			return err
		}

		items = make([]model.GalleryItem, 0, len(gallery))
		for _, item := range reversed(gallery) {
			if category == "" || item.Category == category {
				items = append(items, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateGalleryItem merges the supplied fields into a gallery item. The returned item is nil if no gallery
// item has the identity.
func (m *Mirror) UpdateGalleryItem(
	ctx context.Context,
	id int64,
	update model.GalleryUpdate,
) (*model.GalleryItem, error) {
	var updated *model.GalleryItem
	err := m.update(ctx, func(txn *badger.Txn) error {
		updated = nil

		gallery, err := load[model.GalleryItem](txn, GalleryKey)
		if err != nil {
			return err
		}

		for i := range gallery {
			if gallery[i].ID == id {
				update.Apply(&gallery[i])
				item := gallery[i]
				updated = &item
			}
		}
		if updated == nil {
			return nil
		}

		return store(txn, GalleryKey, gallery)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteGalleryItem removes a gallery item. Unknown identities are acknowledged like any other.
func (m *Mirror) DeleteGalleryItem(ctx context.Context, id int64) (*model.DeleteResult, error) {
	err := m.update(ctx, func(txn *badger.Txn) error {
		gallery, err := load[model.GalleryItem](txn, GalleryKey)
		if err != nil {
			return err
		}

		kept := make([]model.GalleryItem, 0, len(gallery))
		for _, item := range gallery {
			if item.ID != id {
				kept = append(kept, item)
			}
		}

		return store(txn, GalleryKey, kept)
	})
	if err != nil {
		return nil, err
	}
	return &model.DeleteResult{Success: true, DeletedID: id}, nil
}
