// Package store persists encoded projects in a local SQLite database.
// Payloads are the opaque binary streams produced by the codec package;
// the store never looks inside them.
package store
