// Package mirror provides the local fallback store used by the client when the studio server can't be
// reached. Gallery items, bookings and notifications are each kept as a single JSON array under a fixed key
// in a badger database, and identities are handed out by a counter stored next to each array.
//
// Writes made through the mirror are never reconciled with the server.
package mirror

import (
	"context"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/gate"
)

var log = common.Log.WithField("package", "mirror")

// The keys holding each collection.
const (
	GalleryKey       = "bigHeartGallery"
	BookingsKey      = "bigHeartBookings"
	NotificationsKey = "bigHeartNotifications"
)

// maxConflictRetries bounds the number of times a mutation is retried after a badger transaction conflict.
const maxConflictRetries = 16

// Mirror is a badger-backed copy of the studio records.
type Mirror struct {
	db   *badger.DB
	gate *gate.Gate
	now  func() time.Time
}

// Open opens or creates a mirror in the given directory. The directory is locked for the lifetime of the
// mirror, so only one process may use it at a time.
func Open(dir string, adminGate *gate.Gate) (*Mirror, error) {
	return open(badger.DefaultOptions(dir), adminGate)
}

// OpenInMemory opens a mirror that keeps nothing on disk.
func OpenInMemory(adminGate *gate.Gate) (*Mirror, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), adminGate)
}

func open(opts badger.Options, adminGate *gate.Gate) (*Mirror, error) {
	db, err := badger.Open(opts.WithLogger(log))
	if err != nil {
		return nil, errors.Wrap(err, "unable to open the local mirror")
	}
	if adminGate == nil {
		adminGate = gate.New("")
	}
	return &Mirror{
		db:   db,
		gate: adminGate,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the underlying database.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// update runs fn in a read-write transaction, retrying when it conflicts with a concurrent mutation.
func (m *Mirror) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = m.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		log.Debugf("mirror transaction conflict, attempt %d", attempt+1)
	}
	return err
}

// view runs fn in a read-only transaction.
func (m *Mirror) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.db.View(fn)
}

// load decodes the array stored under key. A missing key is an empty array.
func load[T any](txn *badger.Txn, key string) ([]T, error) {
	wrapMsg := "unable to read " + key

	records := make([]T, 0)
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return records, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &records)
	})
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return records, nil
}

// store replaces the array stored under key.
func store[T any](txn *badger.Txn, key string, records []T) error {
	wrapMsg := "unable to write " + key

	val, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if err = txn.Set([]byte(key), val); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// nextID returns the next identity for the collection under key. The counter lives under "<key>:seq" and is
// seeded from the largest identity in use when it doesn't exist yet, so identities are never reused even
// after deletions.
func nextID(txn *badger.Txn, key string, maxExisting int64) (int64, error) {
	wrapMsg := "unable to allocate an identity for " + key
	seqKey := []byte(key + ":seq")

	last := maxExisting
	item, err := txn.Get(seqKey)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, errors.Wrap(err, wrapMsg)
	default:
		err = item.Value(func(val []byte) error {
			stored, err := strconv.ParseInt(string(val), 10, 64)
			if err != nil {
				return err
			}
			if stored > last {
				last = stored
			}
			return nil
		})
		if err != nil {
			return 0, errors.Wrap(err, wrapMsg)
		}
	}

	id := last + 1
	if err = txn.Set(seqKey, []byte(strconv.FormatInt(id, 10))); err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	return id, nil
}

// maxID returns the largest identity among the records.
func maxID[T any](records []T, id func(T) int64) int64 {
	var result int64
	for _, r := range records {
		if v := id(r); v > result {
			result = v
		}
	}
	return result
}

// reversed returns a copy of the records in reverse order.
func reversed[T any](records []T) []T {
	result := make([]T, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		result = append(result, records[i])
	}
	return result
}
