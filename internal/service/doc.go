// Package service contains the application use cases. It orchestrates the
// item generator, the session engine and the snapshot store to serve one
// study workspace per learner.
//
// Each learner's workspace is loaded lazily from the snapshot store on first
// use and guarded by its own mutex, so every load-modify-save cycle for a
// learner runs alone. Persistence failures never block studying: they are
// logged and reported through the Synced flag of the result, while the
// in-memory progress is kept and retried on the next save.
package service
