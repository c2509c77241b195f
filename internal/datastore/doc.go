// Package datastore caches remote dataset objects (manifests and shard
// archives) on local disk.
//
// Training jobs reference manifests and shards by URL; every rank resolves
// the same URL to the same cache path, so concurrent fetchers serialize on a
// file lock and only the first one downloads. Fetched objects are staged
// under a temporary name and renamed into place so readers never observe a
// partial file. A SQLite ledger records what is cached for stats reporting
// and size-bounded pruning, oldest entries first.
//
// Local paths pass through untouched, so callers can treat every manifest or
// shard reference uniformly via Resolve.
package datastore
