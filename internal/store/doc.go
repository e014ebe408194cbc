// Package store is the schema adapter: the container codec between
// world files on disk and the in-memory world graph.
//
// The container is a SQLite database holding a small meta table and
// one row per world section (grids, joints, revisions). Section
// payloads are JSON compressed with zstd; revision history dominates
// payload size in practice, which is what makes compaction the
// size-reduction mechanism.
//
// The codec never reinterprets engine semantics - it only moves bytes.
// Decode produces a *world.World; Encode writes one back in a single
// transaction. Codec errors (missing file, malformed container,
// unsupported format version) surface to the caller unmodified; the
// engine neither sees nor wraps them.
//
// Output safety: Create refuses to open an existing path unless the
// caller explicitly allows overwrite. Writing to the source path is a
// caller-level policy decision the codec never makes on its own.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
