// Package harness runs YAML-described world scenarios against the
// optimization pipeline.
//
// A scenario file declares a world (grids, bricks, joints, revision
// history length), pipeline options, and expectations about the run
// report. The harness builds the world, executes the pipeline with a
// fixed run token, and evaluates the expectations. Golden tests
// additionally compare the post-run canonical world JSON against
// checked-in fixtures (regenerate with `go test ./internal/harness
// -update`).
//
// Scenarios exist to keep behavioral test cases legible: the YAML is
// the documentation of what a world looked like and what the optimizer
// was expected to do to it.
package harness
