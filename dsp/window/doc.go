// Package window generates the cosine-sum analysis windows used to frame
// blocks before an FFT.
package window
