// Package engine implements the world mutation pipeline: the passes
// that rewrite a decoded world graph before it is re-encoded.
//
// PIPELINE ORDER:
//
//  1. Classify - pure tagging pass: main vs physics per grid,
//     wheel/sphere/other per brick. Never mutates, never errors.
//  2. Freeze + Normalize lights - in-place mutation of disjoint
//     per-brick fields. Order-independent, run per-grid in parallel
//     workers with a shared-nothing partition (each brick touched by
//     exactly one worker).
//  3. Barrier, then Compact - snapshots the post-edit global state as
//     the single surviving revision. Must run after all per-entity
//     edits settle; it is the pipeline's only synchronization point.
//  4. Validate - graph integrity check. The individual transformers
//     are total functions by construction; the only composite failure
//     mode is a GraphIntegrityError here, which aborts the run before
//     anything is handed back for encoding.
//
// There is no partial-success state: either the full pipeline
// validates or the whole mutation is rejected. The engine never
// performs I/O; codec work happens entirely outside it.
//
// Each run is stamped with a UUIDv7 run token for log correlation.
package engine
