package sql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-gorp/gorp/v3"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/pagedeck/pagedeck/db"
)

// SqlDb is the relational backend. It speaks postgres, mysql and
// sqlite through gorp; page content is stored as a JSON text column.
type SqlDb struct {
	Dialect          string // postgres | mysql | sqlite
	ConnectionString string

	sql *gorp.DbMap
}

func NewSqlDb(dialect string, connectionString string) *SqlDb {
	return &SqlDb{Dialect: dialect, ConnectionString: connectionString}
}

func (d *SqlDb) Connect() error {
	driver := d.Dialect
	var gorpDialect gorp.Dialect

	switch d.Dialect {
	case "postgres":
		gorpDialect = gorp.PostgresDialect{}
	case "mysql":
		gorpDialect = gorp.MySQLDialect{Engine: "InnoDB", Encoding: "UTF8"}
	case "sqlite":
		gorpDialect = gorp.SqliteDialect{}
	default:
		return fmt.Errorf("unsupported sql dialect: %s", d.Dialect)
	}

	conn, err := sql.Open(driver, d.ConnectionString)
	if err != nil {
		return err
	}

	if err = conn.Ping(); err != nil {
		return err
	}

	d.sql = &gorp.DbMap{Db: conn, Dialect: gorpDialect}
	return nil
}

func (d *SqlDb) Close() error {
	return d.sql.Db.Close()
}

func (d *SqlDb) Sql() *gorp.DbMap {
	return d.sql
}

func (d *SqlDb) IsInitialized() (bool, error) {
	_, err := d.sql.SelectInt(d.PrepareQuery("select count(*) from `user`"))
	return err == nil, nil
}

// PrepareQuery adapts mysql-style queries to the active dialect:
// `?` placeholders become $1, $2... on postgres and backtick quoting
// becomes double quotes.
func (d *SqlDb) PrepareQuery(query string) string {
	switch d.Dialect {
	case "postgres":
		var sb strings.Builder
		n := 0
		for _, r := range query {
			switch r {
			case '?':
				n++
				sb.WriteString(fmt.Sprintf("$%d", n))
			case '`':
				sb.WriteRune('"')
			default:
				sb.WriteRune(r)
			}
		}
		return sb.String()
	default:
		return query
	}
}

func (d *SqlDb) selectOne(holder any, query string, args ...any) error {
	err := d.sql.SelectOne(holder, d.PrepareQuery(query), args...)
	if err == sql.ErrNoRows {
		err = db.ErrNotFound
	}
	return err
}

func (d *SqlDb) selectAll(holder any, query string, args ...any) error {
	_, err := d.sql.Select(holder, d.PrepareQuery(query), args...)
	return err
}

func (d *SqlDb) exec(query string, args ...any) (sql.Result, error) {
	return d.sql.Exec(d.PrepareQuery(query), args...)
}

// insert runs an insert statement and returns the generated id.
// Postgres has no LastInsertId, so the statement is suffixed with a
// RETURNING clause there.
func (d *SqlDb) insert(primaryKeyColumnName string, query string, args ...any) (int, error) {
	if d.Dialect == "postgres" {
		query += " returning " + primaryKeyColumnName
		id, err := d.sql.SelectInt(d.PrepareQuery(query), args...)
		return int(id), err
	}

	res, err := d.exec(query, args...)
	if err != nil {
		return 0, err
	}

	insertID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return int(insertID), nil
}

func (d *SqlDb) Migrate() error {
	for _, stmt := range createTableStatements(d.Dialect) {
		if _, err := d.exec(stmt); err != nil {
			log.WithError(err).Error("migration statement failed")
			return err
		}
	}
	return nil
}
