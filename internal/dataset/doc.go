// Package dataset assembles training samples from manifests and media.
//
// AudioVideoText serves random access over manifest entries backed by files
// on disk. Tarred streams logical samples out of sharded tar archives,
// joining each archive member against the manifest by file id. Both produce
// sample.Sample values ready for collation.
package dataset
