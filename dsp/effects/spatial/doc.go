// Package spatial provides the stereo-field stages of the imager.
//
// Included processors:
//   - StereoImager: width, balance, mid/side blend and crossfeed on a stereo pair.
//   - Exciter: quadratic harmonic enhancer applied per channel.
package spatial
