// Package store defines how a learner's study state is persisted.
//
// Backends only know about opaque blobs addressed by a namespace (the learner)
// and a key. SnapshotStore layers the typed documents, quiz items and session
// statistics on top of any BlobStore.
package store
