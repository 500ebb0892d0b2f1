package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

// bucketName is the single bucket every key lives in. The vault datastore
// layers its own key namespace ("keys", "salt", "items/<uuid>") on top of
// this flat bucket; BoltStore itself is opinion-free about key structure.
var bucketName = []byte("vault")

// BoltStore is the default embedded Store implementation, backed by a
// single bbolt file. bbolt takes an OS file lock for the lifetime of the
// open database, which is what makes a second concurrent instance against
// the same path fail loudly instead of corrupting the file.
type BoltStore struct {
	path string
	db   *bbolt.DB
}

// NewBoltStore creates a BoltStore for the database file at path. Open
// must be called before use.
func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path}
}

func (b *BoltStore) Open(ctx context.Context) error {
	if b.db != nil {
		return nil
	}

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("store: creating vault directory: %w", err)
		}
	}

	db, err := bbolt.Open(b.path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("store: opening vault database: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return fmt.Errorf("store: creating vault bucket: %w", err)
	}

	b.db = db
	return nil
}

func (b *BoltStore) Close(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *BoltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b.db == nil {
		return nil, false, fmt.Errorf("store: not open")
	}

	var blob []byte
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		blob = make([]byte, len(v))
		copy(blob, v)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("store: get %q: %w", key, err)
	}
	return blob, found, nil
}

func (b *BoltStore) Put(ctx context.Context, key string, blob []byte) error {
	if b.db == nil {
		return fmt.Errorf("store: not open")
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), blob)
	})
	if err != nil {
		return fmt.Errorf("store: put %q: %w", key, err)
	}
	return nil
}

func (b *BoltStore) Delete(ctx context.Context, key string) error {
	if b.db == nil {
		return fmt.Errorf("store: not open")
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

func (b *BoltStore) Iterate(ctx context.Context, prefix string, fn func(key string, blob []byte) (bool, error)) error {
	if b.db == nil {
		return fmt.Errorf("store: not open")
	}

	type entry struct {
		key  string
		blob []byte
	}
	var entries []entry

	err := b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		prefixBytes := []byte(prefix)
		for k, v := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
			blob := make([]byte, len(v))
			copy(blob, v)
			entries = append(entries, entry{key: string(k), blob: blob})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: iterate %q: %w", prefix, err)
	}

	for _, e := range entries {
		cont, err := fn(e.key, e.blob)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

func (b *BoltStore) Clear(ctx context.Context) error {
	if b.db == nil {
		return fmt.Errorf("store: not open")
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
	if err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	return nil
}
