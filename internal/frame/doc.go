// Package frame implements frame classes, frame instances and their
// attributes.
//
// A Class declares the attribute schema of a coordinate frame (for example a
// geocentric frame parameterized by an observation time). A Frame is an
// immutable instance of a Class: attribute values plus an optional
// coord.Representation. Transforms never modify frames; they Realize new ones.
//
// Attributes that finite-difference transforms perturb implement Steppable,
// which replaces implicit arithmetic on attribute values with two explicit
// operations: Shift (advance by a step) and Since (difference between two
// values in step units).
package frame
