// Package coord is the vector data model shared by frames and transforms.
//
// A Representation is a batch of Cartesian positions with an optional
// first-order differential. Batches broadcast NumPy-style along a single axis:
// a length-1 side applies to every element of the other side, any other
// mismatch is a ShapeError.
//
// Spherical views are derived on demand; the stored basis is always
// Cartesian so that finite differencing never has to wrap angles.
package coord
