// Package transform is the transform graph: a registry of edges between frame
// classes and the router that chains them.
//
// Each edge is one of three variants:
//
//   - EdgeFunction: a plain function, responsible for its own velocities;
//   - EdgeMatrix: an exact rotation applied to positions and velocities;
//   - EdgeFiniteDifference: a position-only function wrapped in a
//     findiff.Differentiator, which synthesizes the velocities.
//
// The variant is chosen at registration and dispatched through Edge.Apply, so
// routing never inspects the function behind an edge.
//
// MatrixTransform adapts a rotation into a position-only function. Wrapping
// it in a finite-difference edge whose rate term perturbs the rotation's
// parameter gives an approximate velocity rotation (including the rotation
// rate) while the position stays exact.
//
// # Lifecycle
//
// Register every edge, then call Freeze. After that the graph is read-only
// and TransformTo may be called concurrently.
package transform
