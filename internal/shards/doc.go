// Package shards expands sharded archive path patterns and assigns shards to
// workers.
//
// Patterns use brace expansion, e.g. "audio_{0..127}.tar" or
// "{train,val}/shard_{000..009}.tar". Because curly braces are awkward inside
// some job schedulers, the opening brace may be written as "(", "[", "<" or
// "_OP_" and the closing brace as ")", "]", ">" or "_CL_". Partition then
// splits the expanded list across ranks: scatter gives each rank a disjoint
// contiguous slice, replicate hands every rank the full list.
package shards
