// Package sample defines the in-memory representation of audio-visual speech
// training samples and their batched form.
//
// A Sample carries one utterance: a mono float32 waveform, a sequence of RGB
// video frames, and the tokenized transcript, each with an explicit length.
// Collate pads a slice of variable-length samples to the batch maxima and
// stacks them into dense row-major buffers so a downstream consumer can build
// masks from the length vectors.
package sample
