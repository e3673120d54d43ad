// Package grid provides the discretized state for the atmospheric solver.
//
// The package defines the fundamental types shared by every solver component:
//
//   - [Grid]: a rectangular 2D field container with per-edge boundary policies
//   - [Field]: a flat row-major scalar field over the grid
//   - [Column]: a vertical profile extracted from the 2D state
//   - [Snapshot]: an immutable deep copy of the state for external consumers
//
// Fields are stored surface-up: index j is the vertical coordinate, index i
// the horizontal one. All solver packages mutate fields in place through the
// owning Grid; external consumers only ever see a Snapshot.
//
// # Thread Safety
//
// Grid instances are NOT thread-safe. The simulation engine serializes all
// field mutations; parallel stencil sweeps must partition cells so no cell is
// written by more than one worker.
package grid
