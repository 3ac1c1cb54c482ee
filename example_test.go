package imagination_test

import (
	"fmt"
	"io"

	"github.com/cwbudde/imagination"
	"github.com/cwbudde/imagination/analysis"
	"github.com/cwbudde/imagination/dsp/core"
	"github.com/cwbudde/imagination/param"
	"github.com/sirupsen/logrus"
)

func ExampleProcessor() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	p, err := imagination.New(imagination.WithLogger(logrus.NewEntry(logger)))
	if err != nil {
		panic(err)
	}

	if err := p.Prepare(48000, 2, 2); err != nil {
		panic(err)
	}

	_ = p.Store().Set(param.Width, 0)

	block := core.Block{Channels: [][]float64{{2, 0}, {0, 2}}}
	if err := p.ProcessBlock(block); err != nil {
		panic(err)
	}

	meter, err := analysis.NewMeter(p.Snapshots(), analysis.WithLogger(logrus.NewEntry(logger)))
	if err != nil {
		panic(err)
	}

	meter.Step()

	fmt.Println(block.Channels[0], block.Channels[1])
	fmt.Printf("correlation %.2f\n", meter.Analyzer().Correlation())
	// Output:
	// [1 1] [1 1]
	// correlation 1.00
}
