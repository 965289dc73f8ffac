// Package dynamo holds the small primitives shared across the simulation
// packages:
//
//   - error values reported by configuration, loading and run orchestration
//   - [ParallelFor], a chunked fan-out for pure per-element work such as
//     batched distance evaluation
//
// The boundary and accumulator cores never return errors; the values here
// belong to the layers around them.
package dynamo
