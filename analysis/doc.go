// Package analysis provides the non-real-time side of the imager: a stereo
// phase correlation analyzer with a bounded history, an FFT spectrum
// analyzer, a goniometer scope feed and the Meter loop that drives them from
// a hand-off channel at a fixed rate.
//
// Nothing in this package is called from the audio goroutine. Inputs come
// from handoff.Channel snapshots and degenerate inputs (empty, mismatched or
// silent channels) read as zero correlation instead of errors.
package analysis
