package bolt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/pagedeck/pagedeck/db"
)

func TestMigrateNilCardArrays(t *testing.T) {
	store := CreateTestStore()

	// a record written before cards arrays were initialized
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte("pages")).Put(intKey(1), []byte(
			`{"id":1,"owner_id":1,"name":"Board","type":"kanban",`+
				`"content":{"columns":[{"id":"c1","name":"Doing","cards":null}]}}`))
	})
	require.NoError(t, err)

	err = store.db.Update(func(tx *bbolt.Tx) error {
		return migrateNilCardArrays(tx)
	})
	require.NoError(t, err)

	page, err := store.GetPage(1)
	require.NoError(t, err)
	require.Len(t, page.Content.Columns, 1)
	assert.NotNil(t, page.Content.Columns[0].Cards)
	assert.Empty(t, page.Content.Columns[0].Cards)
}

func TestMigrateRunsOnce(t *testing.T) {
	store := CreateTestStore()

	// Migrate already ran inside CreateTestStore; a second run must
	// not reapply anything
	require.NoError(t, store.Migrate())

	var records int
	err := store.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("migrations"))
		require.NotNil(t, b)
		return b.ForEach(func(k, v []byte) error {
			records++
			var meta map[string]any
			return json.Unmarshal(v, &meta)
		})
	})
	require.NoError(t, err)
	assert.Equal(t, len(boltMigrations), records)
}

func TestIsInitialized(t *testing.T) {
	store := CreateTestStore()

	initialized, err := store.IsInitialized()
	require.NoError(t, err)
	assert.True(t, initialized)

	_, err = store.GetUser(1)
	assert.Equal(t, db.ErrNotFound, err)
}
