// Package imagination is a real-time stereo imager.
//
// A Processor runs each audio block through input gain, a dry/wet blend,
// the stereo imaging stage (width, balance, mid/side, crossfeed), a
// quadratic exciter and output gain, then publishes the result on a
// handoff.Channel. Parameters live in a param.Store that any goroutine may
// update; the processor reads them once per block without locking.
//
// Analysis runs elsewhere: an analysis.Meter drains the channel at its own
// rate and tracks stereo phase correlation.
//
//	p, err := imagination.New()
//	if err != nil { ... }
//	if err := p.Prepare(48000, 512, 2); err != nil { ... }
//	meter, _ := analysis.NewMeter(p.Snapshots())
//	go meter.Run(ctx)
//	for block := range blocks {
//		_ = p.ProcessBlock(block)
//	}
package imagination
