// Package gradient owns the mesh-gradient data model and its single writer,
// the [Store].
//
// # Model
//
// A [State] is a solid background color plus an ordered list of up to
// [MaxBlobs] color sources ([Blob]). Blob coordinates are percentages of the
// editing surface, which keeps the model independent of any resolution:
//
//   - X, Y in [0, 100]: the blob center as a percent of width and height
//   - Size in [20, 100]: the percent radius at which the blob fades to
//     transparent
//
// Order is significant but consumer-specific: the compositor lists earlier
// blobs on top, while the rasterizer paints later blobs over earlier ones.
//
// # Mutation
//
// All mutations go through [Store]. Out-of-range values are clamped, unknown
// ids are no-ops, and adding past capacity is a no-op; nothing panics or
// returns an error for domain misuse. [State] values returned by the store
// are copies, so readers can never observe a later mutation.
//
//	s := gradient.NewStore(gradient.WithSeed(42))
//	s.Add(gradient.Blob{Color: "#ff0080", X: 30, Y: 40, Size: 60})
//	s.Randomize()
//	snapshot := s.State()
//
// # Identity
//
// Every blob gets an id from the store's own generator. The default draws
// random UUIDs; [Sequence] yields a per-store monotonic counter for
// reproducible output. Generators are never shared between stores, so
// independent editors cannot collide.
package gradient
