// Package lookupcache persists fingerprints and catalog search results in
// SQLite so repeat lookups of unchanged files skip both hashing and the
// network round trip.
//
// Fingerprints are keyed by absolute path and invalidated when the file size
// or modification time changes. Search results are keyed by fingerprint and
// expire after a caller-supplied TTL. Session tokens are never stored.
//
// The database is disposable. Schema changes bump the version in schema.go;
// users delete lookups.db to adopt the new schema.
package lookupcache
