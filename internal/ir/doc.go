// Package ir provides the shared record types for glyphloop.
//
// This package contains type definitions and hashing only. All other internal
// packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Chain hashes are 16 lowercase hex characters
//   - All JSON tags use snake_case
//   - Timestamps are rendered with TimestampLayout (microsecond precision, no zone)
package ir
