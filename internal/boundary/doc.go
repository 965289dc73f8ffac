// Package boundary models the obstacles a strand simulation collides with
// and evaluates signed distances to them.
//
// An obstacle is reduced to an [Entry] carrying either a sampled distance
// volume or one of the analytic primitives:
//
//   - [Capsule]: segment AB swept by a radius
//   - [Sphere]: center and radius
//   - [Torus]: center, axis, major and minor radius
//   - [Cube]: unit box addressed through an inverse world transform
//
// Distances are negative inside, zero on the surface and positive outside.
// [Distance] never fails: unknown variants and volumes without a field
// report [FarDistance] so callers always get a finite ordering key.
//
// Obstacles enter the package through two introspection contracts:
// [Authored] for explicitly authored boundary components and [Collider]
// for generic physical colliders, the latter mapped to analytic shapes
// through a [ColliderTable].
package boundary
