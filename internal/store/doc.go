// Package store provides SQLite-backed durable storage for the framevel run
// log.
//
// Every transform the CLI performs with --db is appended as one row of the
// runs table: the frames involved, the edges taken, the batch length, the
// input and output as canonical JSON, and whether the transform succeeded.
//
// # Ordering
//
// Rows are ordered by seq, an autoincrement logical clock, never by
// timestamps. Run IDs are UUIDv7 so they also sort by creation time, but
// queries always ORDER BY seq ASC.
//
// # Canonical JSON
//
// Input and output documents are re-encoded before storage: object keys
// sorted by UTF-16 code units, strings NFC normalized, no HTML escaping,
// numbers kept exactly as written. Two runs over the same data therefore
// store byte-identical documents.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
