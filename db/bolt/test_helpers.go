package bolt

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// CreateTestStore opens a connected, migrated store on a throwaway
// file. Intended for tests only.
func CreateTestStore() *BoltDb {
	fn := filepath.Join(os.TempDir(), "pagedeck-test-"+strconv.Itoa(rand.Int())+".bolt")
	store := NewBoltDb(fn)
	if err := store.Connect(); err != nil {
		panic(err)
	}
	if err := store.Migrate(); err != nil {
		panic(err)
	}
	return store
}
