// Package align implements the temporal alignment policy between an audio
// waveform and its paired video clip.
//
// The acoustic front end hops 160 samples per spectrogram step and the
// encoder halves the time axis twice, so one video frame must cover exactly
// 640 waveform samples. Align pads whichever modality falls short with
// symmetric zero padding so both denote the same temporal window.
package align
