// Package gain provides a decibel-controlled block gain stage.
//
// A Stage caches the linear factor for the last dB value it was given, so
// per-block processing is a single vectorised scale per channel.
package gain
