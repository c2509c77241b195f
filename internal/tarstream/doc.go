// Package tarstream iterates media samples stored across sharded tar
// archives.
//
// Shards follow the webdataset layout: the members that make up one logical
// sample share a basename key and sit next to each other in the archive, e.g.
// "utt_00042.wav" followed by "utt_00042.mp4". The Reader walks shards in
// order, groups consecutive members by key, and yields one Item per key with
// the raw audio and video bytes. Shuffle adds a seeded lookahead window on
// top for approximate shuffling without loading a shard into memory.
package tarstream
