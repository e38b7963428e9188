// Package postgres implements store.BlobStore on PostgreSQL through the pgx
// database/sql driver, and ships the embedded goose migrations for its schema.
package postgres
