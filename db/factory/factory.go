package factory

import (
	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/db/bolt"
	"github.com/pagedeck/pagedeck/db/sql"
	"github.com/pagedeck/pagedeck/util"
)

// CreateStore builds the store backend selected by the config. The
// caller is responsible for Connect and Migrate.
func CreateStore() db.Store {
	switch util.Config.Dialect {
	case "bolt":
		return bolt.NewBoltDb(util.Config.BoltPath)
	default:
		return sql.NewSqlDb(util.Config.Dialect, util.Config.ConnectionString)
	}
}
