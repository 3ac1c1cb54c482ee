// Package param defines the imager's eight controls and a lock-free store
// for them.
//
// The store is the boundary to whatever owns parameter state (a plugin
// host, a UI, a preset file). Writers call Set from any goroutine; the audio
// side calls Snapshot once per block and never blocks. Each value lives in
// its own atomic word, so a Snapshot may mix values from two concurrent Set
// calls but never sees a torn float.
package param
