// Package textnorm cleans transcript text and encodes it against a character
// vocabulary.
//
// Normalize lowercases, strips combining accents, and collapses whitespace so
// manifest transcripts from mixed sources map onto a small label set.
// CharTokenizer turns normalized text into label ids with configurable
// unknown and blank ids; anything implementing a text-to-ids function can be
// used by the manifest processor instead, so subword tokenizers plug in from
// outside this package.
package textnorm
