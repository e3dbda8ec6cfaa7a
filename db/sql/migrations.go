package sql

import (
	"strings"
)

// createTableStatements returns the schema in mysql-flavored SQL with
// a {{pk}} placeholder resolved per dialect. PrepareQuery handles
// quoting differences afterwards.
func createTableStatements(dialect string) []string {
	var pk string
	switch dialect {
	case "postgres":
		pk = "serial primary key"
	case "sqlite":
		pk = "integer primary key autoincrement"
	default:
		pk = "integer primary key auto_increment"
	}

	stmts := []string{
		"create table if not exists `user` (" +
			"`id` {{pk}}, " +
			"`first_name` varchar(255) not null default '', " +
			"`last_name` varchar(255) not null default '', " +
			"`username` varchar(255) not null default '', " +
			"`email` varchar(255) not null, " +
			"`password` varchar(255) not null default '', " +
			"`google_id` varchar(255) null, " +
			"`github_id` varchar(255) null, " +
			"`avatar` varchar(1000) not null default '', " +
			"`created` timestamp not null, " +
			"unique (`email`))",

		"create table if not exists `page` (" +
			"`id` {{pk}}, " +
			"`owner_id` integer not null, " +
			"`name` varchar(255) not null, " +
			"`type` varchar(20) not null, " +
			"`icon` varchar(100) not null default '', " +
			"`color` varchar(100) not null default '', " +
			"`content` text not null, " +
			"`created` timestamp not null)",

		"create table if not exists `invite` (" +
			"`id` {{pk}}, " +
			"`sender_id` integer not null, " +
			"`receiver_id` integer not null, " +
			"`page_id` integer null, " +
			"`status` varchar(20) not null default 'pending', " +
			"`created` timestamp not null, " +
			"`updated` timestamp not null)",

		"create table if not exists `session` (" +
			"`id` varchar(100) primary key, " +
			"`user_id` integer not null, " +
			"`created` timestamp not null, " +
			"`last_used` timestamp not null, " +
			"`expired` boolean not null default false)",

		"create table if not exists `settings` (" +
			"`id` {{pk}}, " +
			"`user_id` integer not null, " +
			"`dark_mode` boolean not null default false, " +
			"unique (`user_id`))",

	}

	// mysql has no "create index if not exists"
	if dialect != "mysql" {
		stmts = append(stmts,
			"create index if not exists `invite_receiver` on `invite` (`receiver_id`, `status`)",
			"create index if not exists `invite_sender` on `invite` (`sender_id`, `status`)",
		)
	}

	for i := range stmts {
		stmts[i] = strings.ReplaceAll(stmts[i], "{{pk}}", pk)
	}
	return stmts
}
