// Package history persists one record per separation run in SQLite.
//
// The database lives next to the logs and is a convenience archive, not
// operational state: a history failure is logged and never fails a
// separation. Schema changes bump the version in schema.go; users clear
// the database to adopt the new schema.
package history
