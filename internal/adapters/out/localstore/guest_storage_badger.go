// internal/adapters/out/localstore/guest_storage_badger.go
package localstore

import (
	"errors"
	"log"

	"github.com/dgraph-io/badger/v4"
)

// GuestStorageBadger implements cartsync.GuestStorage on BadgerDB: one
// serialized snapshot per guest-session key.
//
// Read problems are swallowed into "absent" — the engine treats missing
// and unreadable slots identically as an empty cart.
type GuestStorageBadger struct {
	DB *badger.DB
}

func NewGuestStorageBadger(db *badger.DB) *GuestStorageBadger {
	return &GuestStorageBadger{DB: db}
}

func (s *GuestStorageBadger) Load(key string) ([]byte, bool) {
	if s == nil || s.DB == nil {
		return nil, false
	}

	var data []byte
	err := s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Printf("[guest_storage] load key=%q failed, treating as absent: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (s *GuestStorageBadger) Save(key string, data []byte) error {
	if s == nil || s.DB == nil {
		return errors.New("guest_storage: badger db is nil")
	}
	return s.DB.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *GuestStorageBadger) Erase(key string) error {
	if s == nil || s.DB == nil {
		return errors.New("guest_storage: badger db is nil")
	}
	return s.DB.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
