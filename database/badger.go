package database

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	apperrors "histograph/errors"
	"histograph/graph"
)

// BadgerStore persists events in a local Badger database. Keys are the
// big-endian event version, so the default iterator order is version order.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the event database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.WrapErrorf(err, "failed to open event database at %s", path)
	}
	return &BadgerStore{db: db}, nil
}

func eventKey(version uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, version)
	return key
}

// AppendEvent writes one committed event under its version key.
func (s *BadgerStore) AppendEvent(ctx context.Context, e graph.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(e)
	if err != nil {
		return apperrors.WrapError(err, "failed to encode event")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(e.Version), value)
	})
	if err != nil {
		return apperrors.WrapErrorf(apperrors.ErrStorageOperation, "append event %d: %v", e.Version, err)
	}
	return nil
}

// LoadEvents reads all persisted events in version order.
func (s *BadgerStore) LoadEvents(ctx context.Context) ([]graph.Event, error) {
	var events []graph.Event

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e graph.Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return apperrors.WrapError(err, "failed to decode persisted event")
			}
			events = append(events, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Close releases the Badger database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
