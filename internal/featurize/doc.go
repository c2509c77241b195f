// Package featurize turns stored media into the numeric form samples carry.
//
// Waveform decodes WAV audio into a mono float32 waveform at the pipeline
// sample rate, applying the manifest's offset/duration window and channel
// selection. Video extracts RGB frames by piping the clip through ffmpeg's
// rawvideo output, with geometry discovered via ffprobe. Both accept either
// a file path or raw bytes pulled from a tar shard.
package featurize
