// Package manifest loads and indexes NDJSON dataset manifests.
//
// A manifest is a newline-delimited JSON file in which each record describes
// one utterance: the audio file, an optional video file, the transcript (as
// text, a text file path, or pre-tokenized ids), and timing metadata. The
// Collection applies duration and utterance-count filtering at load time and
// can additionally index entries by file id so tar-streamed media can be
// matched back to every manifest offset that references the same physical
// file. The Processor layers a tokenizer plus BOS/EOS handling on top.
package manifest
