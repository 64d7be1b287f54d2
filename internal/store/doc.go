// Package store provides SQLite-backed durable storage for glyphloop chains.
//
// Two tables:
//   - sessions: one row per run, with the final stats snapshot once it ends
//   - chain_records: the integrity chain, one row per frame
//
// # Invariants
//
// chain_records is append-only. WriteRecord inserts; nothing updates or
// deletes records. A duplicate (session_id, idx) write is ignored so a retried
// append is idempotent.
//
// Reads are deterministic: records come back ORDER BY idx ASC, sessions
// ORDER BY started_at ASC, id ASC.
//
// Timestamps are stored as text in ir.TimestampLayout, which is exactly the
// form covered by the record hash, so a chain read back verifies.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
