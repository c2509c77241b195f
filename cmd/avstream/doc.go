// Package main hosts the avstream CLI entrypoint and command graph.
//
// The Cobra-based command tree inspects manifests, previews shard expansion
// and per-rank assignment, manages the remote object cache, and featurizes
// individual samples for debugging. It centralizes configuration resolution
// so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
