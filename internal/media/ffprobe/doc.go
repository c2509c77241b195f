// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The featurizers use it to learn a clip's frame geometry, frame rate, and
// duration before extracting raw media, and the CLI uses it to describe
// manifest media. Inspect shells out to ffprobe and decodes the JSON
// response; helper methods on Result expose the fields this module cares
// about with missing-value fallbacks.
package ffprobe
