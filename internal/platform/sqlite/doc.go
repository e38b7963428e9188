// Package sqlite implements store.BlobStore on an embedded SQLite database
// using the pure Go modernc.org/sqlite driver. It suits single-node
// deployments and local development where running PostgreSQL is overkill.
package sqlite
