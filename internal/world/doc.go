// Package world defines the decoded object graph of a brick-based world
// file: grids, bricks, attached components, joints, and the revision
// history log.
//
// OWNERSHIP MODEL:
//
// World exclusively owns its Grids and Revisions. Grid exclusively owns
// its Bricks. Brick exclusively owns its Components. Joints hold
// non-owning BrickRef handles to their two anchor bricks - removing a
// joint never destroys a brick, and anchor resolution is validated by
// the engine rather than enforced by pointer ownership.
//
// Cross-grid references are index/handle lookups (BrickRef) into each
// grid's brick arena, never raw pointers, so a dangling reference is
// detectable instead of being a silent use-after-free.
//
// CANONICAL SERIALIZATION:
//
// Snapshot captures the full state of a World as plain value types.
// MarshalCanonical produces deterministic JSON (sorted keys, NFC
// normalized strings, shortest-round-trip float formatting) and Digest
// computes a SHA-256 over it with domain separation. The compactor,
// the golden tests, and the idempotence checks all compare worlds
// through this one serialization.
package world
