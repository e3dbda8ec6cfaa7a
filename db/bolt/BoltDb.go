package bolt

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/pagedeck/pagedeck/db"
	"go.etcd.io/bbolt"
)

const dbOpenTimeout = 5 * time.Second

var topLevelBuckets = []string{
	"users",
	"pages",
	"invites",
	"sessions",
	"settings",
}

// BoltDb is the document-store backend. Each entity type lives in its
// own bucket, records are stored as JSON values keyed by id.
type BoltDb struct {
	Filename string
	db       *bbolt.DB
}

func NewBoltDb(filename string) *BoltDb {
	return &BoltDb{Filename: filename}
}

func (d *BoltDb) Connect() error {
	var err error
	d.db, err = bbolt.Open(d.Filename, 0600, &bbolt.Options{Timeout: dbOpenTimeout})
	return err
}

func (d *BoltDb) Close() error {
	return d.db.Close()
}

func (d *BoltDb) IsInitialized() (initialized bool, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		initialized = tx.Bucket([]byte("users")) != nil
		return nil
	})
	return
}

func (d *BoltDb) Migrate() error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range topLevelBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return d.applyMigrations(tx)
	})
}

func intKey(id int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// nextID reserves the next auto-increment id of a bucket. Must be
// called inside an update transaction.
func nextID(b *bbolt.Bucket) (int, error) {
	seq, err := b.NextSequence()
	if err != nil {
		return 0, err
	}
	return int(seq), nil
}

func putObject(b *bbolt.Bucket, key []byte, object any) error {
	j, err := json.Marshal(object)
	if err != nil {
		return err
	}
	return b.Put(key, j)
}

// getObject reads one record by key; db.ErrNotFound when absent.
func getObject(b *bbolt.Bucket, key []byte, object any) error {
	v := b.Get(key)
	if v == nil {
		return db.ErrNotFound
	}
	return json.Unmarshal(v, object)
}

func unmarshalValue(v []byte, object any) error {
	return json.Unmarshal(v, object)
}
