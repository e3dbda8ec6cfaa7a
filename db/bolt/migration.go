package bolt

import (
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"
)

// Data migrations run once each, newest last. The applied versions
// are recorded in the "migrations" bucket so that Migrate stays
// idempotent across restarts.
type boltMigration struct {
	version string
	apply   func(tx *bbolt.Tx) error
}

var boltMigrations = []boltMigration{
	{"1.1.0", migrateNilCardArrays},
}

func (d *BoltDb) isMigrationApplied(tx *bbolt.Tx, version string) bool {
	b := tx.Bucket([]byte("migrations"))
	if b == nil {
		return false
	}
	return b.Get([]byte(version)) != nil
}

func (d *BoltDb) markMigrationApplied(tx *bbolt.Tx, version string) error {
	b, err := tx.CreateBucketIfNotExists([]byte("migrations"))
	if err != nil {
		return err
	}

	j, err := json.Marshal(map[string]any{
		"version": version,
		"applied": time.Now(),
	})
	if err != nil {
		return err
	}

	return b.Put([]byte(version), j)
}

func (d *BoltDb) applyMigrations(tx *bbolt.Tx) error {
	for _, m := range boltMigrations {
		if d.isMigrationApplied(tx, m.version) {
			continue
		}
		if err := m.apply(tx); err != nil {
			return err
		}
		if err := d.markMigrationApplied(tx, m.version); err != nil {
			return err
		}
	}
	return nil
}

// migrateNilCardArrays rewrites kanban pages whose columns were
// stored with a null cards field before AddColumn started
// initializing it.
func migrateNilCardArrays(tx *bbolt.Tx) error {
	b := tx.Bucket([]byte("pages"))
	if b == nil {
		return nil
	}

	type rewrite struct {
		key   []byte
		value []byte
	}
	var rewrites []rewrite

	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var page map[string]any
		if err := json.Unmarshal(v, &page); err != nil {
			return err
		}

		content, _ := page["content"].(map[string]any)
		if content == nil {
			continue
		}
		columns, _ := content["columns"].([]any)
		if columns == nil {
			continue
		}

		changed := false
		for _, raw := range columns {
			column, _ := raw.(map[string]any)
			if column == nil {
				continue
			}
			if column["cards"] == nil {
				column["cards"] = []any{}
				changed = true
			}
		}

		if !changed {
			continue
		}

		j, err := json.Marshal(page)
		if err != nil {
			return err
		}
		key := make([]byte, len(k))
		copy(key, k)
		rewrites = append(rewrites, rewrite{key, j})
	}

	for _, r := range rewrites {
		if err := b.Put(r.key, r.value); err != nil {
			return err
		}
	}
	return nil
}
